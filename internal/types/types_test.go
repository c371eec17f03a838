package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexIDUnmarshal(t *testing.T) {
	var body struct {
		ID FlexID `json:"id"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"id": 42}`), &body))
	assert.Equal(t, uint64(42), body.ID.Uint64())

	require.NoError(t, json.Unmarshal([]byte(`{"id": "7"}`), &body))
	assert.Equal(t, uint64(7), body.ID.Uint64())

	require.NoError(t, json.Unmarshal([]byte(`{"id": 9223372036854775807}`), &body))
	assert.Equal(t, uint64(9223372036854775807), body.ID.Uint64())

	for _, bad := range []string{
		`{"id": -1}`,
		`{"id": 1.5}`,
		`{"id": "x"}`,
		`{"id": true}`,
		`{"id": 9223372036854775808}`,
		`{"id": "18446744073709551615"}`,
	} {
		assert.Error(t, json.Unmarshal([]byte(bad), &body), bad)
	}
}

func TestFlexIDNull(t *testing.T) {
	var body struct {
		ID FlexID `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"id": null}`), &body))
	assert.Zero(t, body.ID)
}

func TestFlexTimeUnmarshal(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	cases := map[string]string{
		"rfc3339 utc":    `"2024-03-01T10:30:00Z"`,
		"rfc3339 offset": `"2024-03-01T12:30:00+02:00"`,
		"naive":          `"2024-03-01T10:30:00"`,
		"space":          `"2024-03-01 10:30:00"`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			var ft FlexTime
			require.NoError(t, json.Unmarshal([]byte(input), &ft))
			assert.True(t, want.Equal(ft.Time))
			assert.Equal(t, time.UTC, ft.Location())
		})
	}
}

func TestFlexTimeRejects(t *testing.T) {
	var ft FlexTime
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ft))
	assert.Error(t, json.Unmarshal([]byte(`12`), &ft))
}
