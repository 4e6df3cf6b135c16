package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate_Layouts(t *testing.T) {
	want := Date{Year: 2023, Month: time.May, Day: 1}

	inputs := []string{
		"2023-05-01",
		"2023-05-01T14:30:00Z",
		"2023-05-01T14:30:00",
		"2023-05-01 14:30:00",
		"May 1, 2023",
		"1 May 2023",
		"05/01/2023",
		"  2023-05-01  ", // surrounding whitespace from scraped pages
	}

	for _, input := range inputs {
		got, err := ParseDate(input)
		require.NoError(t, err, "input %q", input)
		assert.Equal(t, want, got, "input %q", input)
	}
}

func TestParseDate_DiscardsTimeOfDay(t *testing.T) {
	morning, err := ParseDate("2023-05-01T08:00:00Z")
	require.NoError(t, err)
	evening, err := ParseDate("2023-05-01T23:59:59Z")
	require.NoError(t, err)

	assert.True(t, morning.Equal(evening), "same calendar day must compare equal")
}

func TestParseDate_Invalid(t *testing.T) {
	for _, input := range []string{"", "   ", "not a date", "2023-13-45", "TBD"} {
		_, err := ParseDate(input)
		require.Error(t, err, "input %q", input)
		assert.ErrorIs(t, err, ErrUnparseableDate)
	}
}

func TestDate_Before(t *testing.T) {
	base := Date{Year: 2023, Month: time.May, Day: 2}

	assert.True(t, Date{2023, time.May, 1}.Before(base), "one day earlier")
	assert.True(t, Date{2023, time.April, 30}.Before(base), "earlier month")
	assert.True(t, Date{2022, time.December, 31}.Before(base), "earlier year")
	assert.False(t, base.Before(base), "equal dates are not before")
	assert.False(t, Date{2023, time.May, 3}.Before(base), "later day")
}

func TestDate_String(t *testing.T) {
	assert.Equal(t, "2023-05-01", Date{Year: 2023, Month: time.May, Day: 1}.String())
}
