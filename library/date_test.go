package library

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateFormats(t *testing.T) {
	iso, err := ParseDate("2024-01-06")
	require.NoError(t, err)
	legacy, err := ParseDate("06/01/2024")
	require.NoError(t, err)
	assert.Equal(t, iso, legacy)
	assert.Equal(t, "2024-01-06", iso.String())

	_, err = ParseDate("06-01-2024")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)
}

func TestAddDaysNormalizes(t *testing.T) {
	d := MustDate("2024-01-01").AddDays(5)
	assert.Equal(t, "2024-01-06", d.String())

	// month and year rollover
	assert.Equal(t, "2024-02-02", MustDate("2024-01-28").AddDays(5).String())
	assert.Equal(t, "2025-01-02", MustDate("2024-12-31").AddDays(2).String())
	// leap day
	assert.Equal(t, "2024-02-29", MustDate("2024-02-28").AddDays(1).String())
}

func TestDaysSince(t *testing.T) {
	due := MustDate("2024-01-06")
	assert.Equal(t, 4, MustDate("2024-01-10").DaysSince(due))
	assert.Equal(t, 0, due.DaysSince(due))
	assert.Equal(t, -2, MustDate("2024-01-04").DaysSince(due))
	// across a month boundary
	assert.Equal(t, 26, MustDate("2024-02-01").DaysSince(due))
}

func TestDateOrdering(t *testing.T) {
	a := MustDate("2024-01-01")
	b := MustDate("2024-01-02")
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.After(a))
	assert.False(t, a.Before(a))
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := MustDate("2024-03-15")
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2024-03-15"`, string(data))

	var back Date
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, d, back)
}

func TestDateSQLRoundTrip(t *testing.T) {
	d := MustDate("2024-03-15")
	v, err := d.Value()
	require.NoError(t, err)

	var back Date
	require.NoError(t, back.Scan(v))
	assert.Equal(t, d, back)

	require.NoError(t, back.Scan([]byte("2024-07-01")))
	assert.Equal(t, "2024-07-01", back.String())

	require.NoError(t, back.Scan(time.Date(2024, time.May, 2, 13, 45, 0, 0, time.Local)))
	assert.Equal(t, "2024-05-02", back.String())

	assert.Error(t, back.Scan(42))
}
