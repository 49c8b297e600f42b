package timeofday

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	cases := map[string]Minutes{
		"00:00":    0,
		"08:00":    480,
		"09:15:00": 555,
		"23:59":    1439,
		" 17:30 ":  1050,
	}
	for input, want := range cases {
		got, err := Parse(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, bad := range []string{"", "9:00", "24:00", "12:60", "12:00:60", "12", "12:00:00:00", "ab:cd", "-1:00"} {
		_, err := Parse(bad)
		assert.ErrorIs(t, err, ErrFormat, "input %q", bad)
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	got, err := Normalize("09:15:42")
	require.NoError(t, err)
	assert.Equal(t, "09:15", got)

	_, err = Normalize("9:15")
	assert.ErrorIs(t, err, ErrFormat)
}

func TestFormatting(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "9:15", FormatCompact(555))
	assert.Equal(t, "09:15", FormatPadded(555))
	assert.Equal(t, "0:05", FormatCompact(5))
	assert.Equal(t, "7:30", FormatHours(450))
	assert.Equal(t, "16:00", MustParse("16:00").String())
}

func TestDuration(t *testing.T) {
	t.Parallel()

	d, ok := Duration(MustParse("08:00"), MustParse("16:00"))
	require.True(t, ok)
	assert.Equal(t, Minutes(480), d)
	assert.Equal(t, "8h", FormatDuration(d))

	d, ok = Duration(MustParse("09:15"), MustParse("17:00"))
	require.True(t, ok)
	assert.Equal(t, "7h 45min", FormatDuration(d))

	_, ok = Duration(MustParse("17:00"), MustParse("09:00"))
	assert.False(t, ok)
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	p := MustParse
	assert.True(t, Overlaps(p("09:00"), p("12:00"), p("11:00"), p("13:00")))
	assert.False(t, Overlaps(p("09:00"), p("10:00"), p("10:00"), p("11:00")))
	assert.True(t, Overlaps(p("08:00"), p("16:00"), p("10:00"), p("11:00")))
	assert.Equal(t, Minutes(60), OverlapMinutes(p("09:00"), p("12:00"), p("11:00"), p("13:00")))
	assert.Equal(t, Minutes(0), OverlapMinutes(p("09:00"), p("10:00"), p("10:00"), p("11:00")))
}

func TestShift(t *testing.T) {
	t.Parallel()

	p := MustParse
	working, brk := Shift(p("08:00"), p("16:00"))
	assert.Equal(t, Minutes(450), working)
	assert.Equal(t, Minutes(30), brk)

	working, brk = Shift(p("08:00"), p("14:00"))
	assert.Equal(t, Minutes(360), working)
	assert.Equal(t, Minutes(0), brk)

	working, brk = Shift(p("14:00"), p("08:00"))
	assert.Zero(t, working)
	assert.Zero(t, brk)
}
