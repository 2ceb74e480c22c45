package logging_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cipherchat/internal/logging"
)

func TestNew(t *testing.T) {
	for _, format := range []string{"console", "json", ""} {
		log, err := logging.New("debug", format)
		require.NoError(t, err, format)
		assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
	}

	_, err := logging.New("loud", "json")
	require.Error(t, err)
	_, err = logging.New("info", "xml")
	require.Error(t, err)
}

func TestTask(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	require.NoError(t, logging.Task(log, "Open blob directory", func() error { return nil }))

	boom := errors.New("boom")
	err := logging.Task(log, "Bind listener", func() error { return boom })
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "bind listener")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "Open blob directory [ OK ]", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}
