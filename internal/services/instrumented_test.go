package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fittrack/apiserver/types"
)

func logLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var line map[string]any
		require.NoError(t, json.Unmarshal([]byte(raw), &line))
		lines = append(lines, line)
	}
	return lines
}

func TestInstrumentUsers_LogsBeforeAndAfter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	inner, _ := newUserService()
	users := InstrumentUsers(inner, logger)

	created, err := users.Create(context.Background(), types.User{
		FirstName: "John",
		LastName:  "Doe",
		Birthdate: types.NewDate(1985, time.May, 15),
		Email:     "john.doe@example.com",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "service call", lines[0]["msg"])
	assert.Equal(t, "Create", lines[0]["method"])
	assert.Equal(t, "service call returned", lines[1]["msg"])
	assert.Equal(t, "users", lines[1]["service"])
	assert.Contains(t, buf.String(), "john.doe@example.com")
}

func TestInstrumentUsers_GetPassesThroughFound(t *testing.T) {
	inner, _ := newUserService()
	users := InstrumentUsers(inner, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	_, found, err := users.Get(context.Background(), 12)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestInstrumentTrainings_LogsFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	inner, _ := newTrainingService()
	trainings := InstrumentTrainings(inner, logger)

	_, err := trainings.FindCompletedAfter(context.Background(), "yesterday")
	require.True(t, errors.Is(err, ErrInvalidDateFormat))

	lines := logLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "service call failed", lines[1]["msg"])
	assert.Equal(t, "WARN", lines[1]["level"])
	assert.Equal(t, "FindCompletedAfter", lines[1]["method"])
}
