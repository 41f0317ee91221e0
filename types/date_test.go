package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2023-06-01")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2023, time.June, 1), d)

	for _, bad := range []string{"", "01/06/2023", "2023-6-1", "2023-06-01T00:00:00", "2023-13-01"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, bad)
	}
}

func TestDate_AddYearsLeapDay(t *testing.T) {
	leap := NewDate(2024, time.February, 29)
	assert.Equal(t, "2023-02-28", leap.AddYears(-1).String())
	assert.Equal(t, "2020-02-29", leap.AddYears(-4).String())
	assert.Equal(t, "1994-03-10", NewDate(2024, time.March, 10).AddYears(-30).String())
}

func TestDateOf_UsesLocationOfTime(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	instant := time.Date(2024, time.March, 10, 23, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-10", DateOf(instant).String())
	assert.Equal(t, "2024-03-11", DateOf(instant.In(tokyo)).String())
}

func TestDate_JSON(t *testing.T) {
	var payload struct {
		Birthdate Date `json:"birthdate"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"birthdate":"1985-05-15"}`), &payload))
	assert.Equal(t, NewDate(1985, time.May, 15), payload.Birthdate)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"birthdate":"1985-05-15"}`, string(out))

	err = json.Unmarshal([]byte(`{"birthdate":"15.05.1985"}`), &payload)
	assert.ErrorContains(t, err, "expected yyyy-MM-dd")

	require.NoError(t, json.Unmarshal([]byte(`{"birthdate":null}`), &payload))
	assert.True(t, payload.Birthdate.IsZero())

	out, err = json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"birthdate":null}`, string(out))
}

func TestDate_Scan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(1985, time.May, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "1985-05-15", d.String())

	require.NoError(t, d.Scan([]byte("1990-01-02")))
	assert.Equal(t, "1990-01-02", d.String())

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := NewDate(2000, time.January, 1).Value()
	require.NoError(t, err)
	assert.Equal(t, "2000-01-01", v)
}

func TestTimestamp_UnmarshalLayouts(t *testing.T) {
	cases := map[string]time.Time{
		`"2023-06-01T10:15:30"`:       time.Date(2023, time.June, 1, 10, 15, 30, 0, time.UTC),
		`"2023-06-01T10:15:30.5"`:     time.Date(2023, time.June, 1, 10, 15, 30, 500_000_000, time.UTC),
		`"2023-06-01T12:15:30+02:00"`: time.Date(2023, time.June, 1, 10, 15, 30, 0, time.UTC),
	}
	for raw, want := range cases {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		assert.True(t, want.Equal(ts.Time), raw)
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
