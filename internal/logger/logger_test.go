// internal/logger/logger_test.go
package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "warn", Console: &buf})
	require.NoError(t, err)
	require.Equal(t, logrus.WarnLevel, log.Level)

	log.Info("hidden")
	log.Warn("shown")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "shown")
}

func TestNew_DefaultLevel(t *testing.T) {
	log, err := New(Config{Console: &bytes.Buffer{}})
	require.NoError(t, err)
	require.Equal(t, logrus.InfoLevel, log.Level)
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Config{Level: "chatty"})
	require.Error(t, err)
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tcm.log")
	var buf bytes.Buffer
	log, err := New(Config{File: path, Console: &buf})
	require.NoError(t, err)

	log.WithField("module", "test").Info("to both")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(b), "to both")
	require.Contains(t, buf.String(), "to both")
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("nowhere")
}
