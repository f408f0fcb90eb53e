package logging_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/serroba/url-shorten/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Run("defaults build a logger", func(t *testing.T) {
		logger, err := logging.New()

		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zap.InfoLevel))
		assert.False(t, logger.Core().Enabled(zap.DebugLevel))
	})

	t.Run("level option", func(t *testing.T) {
		logger, err := logging.New(logging.WithLevel("debug"))

		require.NoError(t, err)
		assert.True(t, logger.Core().Enabled(zap.DebugLevel))
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := logging.New(logging.WithLevel("loud"))

		assert.Error(t, err)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		_, err := logging.New(logging.WithEncoding("xml"))

		assert.Error(t, err)
	})

	t.Run("json output with initial fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "app.log")

		logger, err := logging.New(
			logging.WithEncoding(logging.EncodingJSON),
			logging.WithOutputPaths(path),
			logging.WithField("service", "shortener"),
		)
		require.NoError(t, err)

		logger.Info("hello", zap.Int64("id", 42))
		require.NoError(t, logger.Sync())

		raw, err := os.ReadFile(path)
		require.NoError(t, err)

		var entry map[string]any
		require.NoError(t, json.Unmarshal(raw, &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, "shortener", entry["service"])
		assert.InDelta(t, 42, entry["id"], 0)
	})
}
