package project_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ganot/project-sentry/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_AcceptsBackendLayouts(t *testing.T) {
	want := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	for _, raw := range []string{
		`"2024-03-01T09:30:00"`,
		`"2024-03-01T09:30:00.000000"`,
		`"2024-03-01T09:30:00Z"`,
		`"2024-03-01T10:30:00+01:00"`,
	} {
		var ts project.Timestamp
		require.NoError(t, json.Unmarshal([]byte(raw), &ts), raw)
		require.True(t, want.Equal(ts.Time), "%s parsed as %s", raw, ts.Time)
	}
}

func TestTimestamp_NullAndInvalid(t *testing.T) {
	var ts project.Timestamp
	require.NoError(t, json.Unmarshal([]byte(`null`), &ts))
	require.True(t, ts.IsZero())

	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))

	data, err := json.Marshal(project.Timestamp{})
	require.NoError(t, err)
	require.Equal(t, "null", string(data))

	data, err = json.Marshal(project.NewTimestamp(time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)))
	require.NoError(t, err)
	require.Equal(t, `"2024-03-01T09:30:00Z"`, string(data))
}
