package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  time.Time
		isSet bool
	}{
		{name: "rfc3339 utc", in: `"2025-03-01T10:00:00Z"`, want: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), isSet: true},
		{name: "rfc3339 offset", in: `"2025-03-01T12:00:00+02:00"`, want: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), isSet: true},
		{name: "local date-time", in: `"2024-05-01T10:00:00"`, want: time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local), isSet: true},
		{name: "local fractional", in: `"2024-05-01T10:00:00.5"`, want: time.Date(2024, 5, 1, 10, 0, 0, 500000000, time.Local), isSet: true},
		{name: "date only", in: `"2024-05-01"`, want: time.Date(2024, 5, 1, 0, 0, 0, 0, time.Local), isSet: true},
		{name: "unreadable", in: `"yesterday"`},
		{name: "blank", in: `""`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				At *Timestamp `json:"at"`
			}
			require.NoError(t, json.Unmarshal([]byte(`{"at":`+tt.in+`}`), &v))
			require.NotNil(t, v.At)
			got, ok := v.At.Value()
			assert.Equal(t, tt.isSet, ok)
			if tt.isSet {
				assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
			}
		})
	}
}

func TestTimestamp_Null(t *testing.T) {
	var v struct {
		At *Timestamp `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":null}`), &v))
	assert.Nil(t, v.At)
	_, ok := v.At.Value()
	assert.False(t, ok)
}

func TestTimestamp_RejectsNonString(t *testing.T) {
	var v struct {
		At *Timestamp `json:"at"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"at":42}`), &v))
}

func TestTimestamp_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(NewTimestamp(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.JSONEq(t, `"2025-03-01T10:00:00Z"`, string(data))

	data, err = json.Marshal(Timestamp{})
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}
