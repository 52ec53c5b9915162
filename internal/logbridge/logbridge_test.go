// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package logbridge

import (
	"context"
	"log/slog"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerForwardsRecords(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(log.DebugLevel)
	logger := New(l)

	logger.With("surface", "s1").WithGroup("cmd").Warn("unknown command", "index", 3, "tag", "arc")

	require.Len(t, hook.Entries, 1)
	e := hook.LastEntry()
	assert.Equal(t, log.WarnLevel, e.Level)
	assert.Equal(t, "unknown command", e.Message)
	assert.Equal(t, "s1", e.Data["surface"])
	assert.Equal(t, int64(3), e.Data["cmd.index"])
	assert.Equal(t, "arc", e.Data["cmd.tag"])
}

func TestHandlerRespectsLevel(t *testing.T) {
	l, hook := test.NewNullLogger()
	l.SetLevel(log.InfoLevel)
	logger := New(l)

	logger.Debug("hidden")
	logger.Info("shown")

	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "shown", hook.LastEntry().Message)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, log.ErrorLevel, Level(slog.LevelError))
	assert.Equal(t, log.WarnLevel, Level(slog.LevelWarn))
	assert.Equal(t, log.InfoLevel, Level(slog.LevelInfo))
	assert.Equal(t, log.DebugLevel, Level(slog.LevelDebug))
}
