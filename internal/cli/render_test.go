package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/kita-dienstplan/internal/roster"
)

func TestTableAlignsColumns(t *testing.T) {
	var buf bytes.Buffer
	p := newPrinter(&buf)
	assert.False(t, p.styled)

	p.table([]string{"Name", "Mo"}, [][]string{
		{"Anna Schmidt", "08:00–16:00"},
		{"Ben", p.status(roster.StatusSick, "KRANK")},
	})

	assert.Equal(t,
		"Name          Mo\n"+
			"────────────  ───────────\n"+
			"Anna Schmidt  08:00–16:00\n"+
			"Ben           KRANK\n",
		buf.String())
}

func TestParseDayAcceptsNamesAndNumbers(t *testing.T) {
	for input, want := range map[string]int{"3": 3, "Mittwoch": 3, "fr": 5, " Monday ": 1} {
		day, err := parseDay(input)
		assert.NoError(t, err, input)
		assert.Equal(t, want, int(day), input)
	}
	_, err := parseDay("8")
	assert.Error(t, err)
}
