package utils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	var body struct {
		Start Date  `json:"start"`
		End   *Date `json:"end"`
		Due   Date  `json:"due"`
	}

	err := json.Unmarshal([]byte(`{"start":"2024-01-01T10:00","end":"2024-01-03","due":null}`), &body)

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC), body.Start.Time)
	require.NotNil(t, body.End)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), body.End.Time)
	assert.True(t, body.Due.IsZero())
}

func TestDate_UnmarshalJSONRejects(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"01/02/2024"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240101`), &d))
}

func TestDate_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(NewDate(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	assert.JSONEq(t, `"2024-01-01T10:00:00Z"`, string(out))
}
