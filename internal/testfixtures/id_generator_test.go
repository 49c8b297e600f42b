package testfixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDGeneratorIssuesSequentialIDs(t *testing.T) {
	gen := NewIDGenerator("entry")
	assert.Equal(t, "entry-1", gen.Next())
	assert.Equal(t, "entry-2", gen.Next())
	assert.Equal(t, []string{"entry-1", "entry-2"}, gen.Issued())
}

func TestIDGeneratorReset(t *testing.T) {
	gen := NewIDGenerator("")
	_ = gen.Next()
	gen.Reset()

	assert.Empty(t, gen.Issued())
	assert.Equal(t, "id-1", gen.NextFunc()())
}
