package task

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunAllIsolatesFailures(t *testing.T) {
	registry := NewRegistry(
		&Task{Name: "ok", Run: func(context.Context) (any, error) {
			return "done", nil
		}},
		&Task{Name: "broken", Run: func(context.Context) (any, error) {
			return nil, errors.New("boom")
		}},
		&Task{Name: "also_ok", Run: func(context.Context) (any, error) {
			return 42, nil
		}},
	)

	results := registry.RunAll(context.Background())
	require.Len(t, results, 3)

	assert.True(t, results["ok"].Success)
	assert.Equal(t, "done", results["ok"].Result)

	assert.False(t, results["broken"].Success)
	assert.Contains(t, results["broken"].Error, "boom")

	assert.True(t, results["also_ok"].Success)
	assert.Equal(t, 42, results["also_ok"].Result)
}

func TestRunAllRecoversPanic(t *testing.T) {
	registry := NewRegistry(
		&Task{Name: "panicking", Run: func(context.Context) (any, error) {
			panic("unexpected state")
		}},
		&Task{Name: "survivor", Run: func(context.Context) (any, error) {
			return nil, nil
		}},
	)

	results := registry.RunAll(context.Background())

	assert.False(t, results["panicking"].Success)
	assert.Contains(t, results["panicking"].Error, "unexpected state")
	assert.True(t, results["survivor"].Success)
}

func TestRunAllEnforcesTaskTimeout(t *testing.T) {
	registry := NewRegistry(
		&Task{
			Name:    "slow",
			Timeout: 50 * time.Millisecond,
			Run: func(ctx context.Context) (any, error) {
				select {
				case <-time.After(5 * time.Second):
					return nil, nil
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			},
		},
		&Task{Name: "fast", Run: func(context.Context) (any, error) {
			return nil, nil
		}},
	)

	started := time.Now()
	results := registry.RunAll(context.Background())

	assert.False(t, results["slow"].Success)
	assert.Contains(t, results["slow"].Error, context.DeadlineExceeded.Error())
	assert.True(t, results["fast"].Success)
	assert.Less(t, time.Since(started), 2*time.Second)
}
