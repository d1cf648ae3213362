package notify

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestFeed_DrainOrderAndClear(t *testing.T) {
	ctx := context.Background()
	f := NewFeed(8)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	f.now = func() time.Time { return fixed }

	f.Error(ctx, "first")
	f.Error(ctx, "second")
	require.Equal(t, 2, f.Len())

	got := f.Drain()
	require.Len(t, got, 2)
	require.Equal(t, "first", got[0].Message)
	require.Equal(t, "second", got[1].Message)
	require.Equal(t, LevelError, got[0].Level)
	require.Equal(t, fixed, got[0].At)
	require.NotEqual(t, got[0].ID, got[1].ID)
	_, err := uuid.Parse(got[0].ID)
	require.NoError(t, err)

	require.Empty(t, f.Drain())
	require.NotNil(t, f.Drain())
}

func TestFeed_DropsOldestWhenFull(t *testing.T) {
	ctx := context.Background()
	f := NewFeed(2)

	f.Error(ctx, "a")
	f.Error(ctx, "b")
	f.Error(ctx, "c")

	got := f.Drain()
	require.Len(t, got, 2)
	require.Equal(t, "b", got[0].Message)
	require.Equal(t, "c", got[1].Message)
}

func TestTee(t *testing.T) {
	ctx := context.Background()
	core, logs := observer.New(zap.InfoLevel)
	f := NewFeed(4)

	Tee(f, Log{L: zap.New(core)}).Error(ctx, "boom")

	require.Equal(t, 1, f.Len())
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	require.Equal(t, "notification", entry.Message)
	require.Equal(t, "boom", entry.ContextMap()["message"])
}

func TestLog_NilLogger(t *testing.T) {
	require.NotPanics(t, func() { Log{}.Error(context.Background(), "x") })
}
