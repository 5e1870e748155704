package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryOptions {
	return RetryOptions{MaxAttempts: 3, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}
}

func TestWithRetry_RetriesTransientErrors(t *testing.T) {
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("database is locked"), Retryable: true}
		}
		return nil
	}, fastRetry())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	permanent := errors.New("constraint failed")
	calls := 0
	err := WithRetry(context.Background(), func() error {
		calls++
		return permanent
	}, fastRetry())

	assert.ErrorIs(t, err, permanent)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_ExhaustsAttempts(t *testing.T) {
	busy := errors.New("database is locked")
	err := WithRetry(context.Background(), func() error {
		return &RetryableError{Err: busy, Retryable: true}
	}, fastRetry())

	assert.ErrorIs(t, err, ErrMaxRetries)
	assert.ErrorIs(t, err, busy)
}

func TestWithRetry_HonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	opts := RetryOptions{MaxAttempts: 5, InitialDelay: time.Hour, MaxDelay: time.Hour}

	calls := 0
	err := WithRetry(ctx, func() error {
		calls++
		cancel()
		return &RetryableError{Err: errors.New("busy"), Retryable: true}
	}, opts)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestUserError(t *testing.T) {
	cause := errors.New("no such file")
	err := NewUserError("could not read export", cause)

	assert.Equal(t, "could not read export: no such file", err.Error())
	assert.ErrorIs(t, err, cause)

	var userErr *UserError
	require.ErrorAs(t, err, &userErr)
	assert.Equal(t, "could not read export", userErr.UserMessage)
	assert.Equal(t, "bare", NewUserError("bare", nil).Error())
}

func TestSetupLogger(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	require.NoError(t, SetupLogger(&buf, "debug", "json"))
	LogInfo("hello", Fields{"account": "cc"})
	assert.Contains(t, buf.String(), `"account":"cc"`)

	assert.ErrorIs(t, SetupLogger(&buf, "loud", "json"), ErrInvalidConfig)
	assert.ErrorIs(t, SetupLogger(&buf, "info", "xml"), ErrInvalidConfig)
}
