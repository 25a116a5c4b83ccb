// FILE: lixenwraith/tradelog/storage_test.go
package tradelog

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/tradelog/msg"
)

// createFileLogger creates an unpinned logger writing only to a file in a temp directory
func createFileLogger(t *testing.T) (*Logger, string) {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.EnablePinning = false
	cfg.EnableConsole = false
	cfg.EnableFile = true
	cfg.Directory = tmpDir
	cfg.FlushIntervalMs = 10

	logger, err := New(cfg)
	require.NoError(t, err)
	return logger, filepath.Join(tmpDir, "trade.log")
}

func TestFileOutput(t *testing.T) {
	logger, path := createFileLogger(t)

	// File exists as soon as the logger is built
	_, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, logger.Event(msg.AccountMakerFill{Symbol: "SOLUSDT", Side: msg.SideSell, FillPrice: 150, Qty: 4, Timestamp: 11}))
	require.NoError(t, logger.Error(7, "reject"))
	require.NoError(t, logger.Shutdown(time.Second))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"AccountMakerFill - symbol: SOLUSDT, side: sell, fill_price: 150, qty: 4, timestamp: 11\n"+
			"Error 7: reject\n",
		string(content))
}

func TestFileOutputAppends(t *testing.T) {
	logger, path := createFileLogger(t)
	require.NoError(t, logger.Warning("first run"))
	require.NoError(t, logger.Shutdown(time.Second))

	cfg := logger.GetConfig()
	logger2, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, logger2.Warning("second run"))
	require.NoError(t, logger2.Shutdown(time.Second))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Warning:  first run\nWarning:  second run\n", string(content))
}

func TestOpenOutput(t *testing.T) {
	t.Run("no outputs discards", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EnableConsole = false

		out, err := openOutput(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, io.Discard, out.w)
		assert.Nil(t, out.sync)
		assert.NoError(t, out.close())
	})

	t.Run("console target", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.ConsoleTarget = ConsoleStderr

		out, err := openOutput(cfg, nil)
		require.NoError(t, err)
		assert.Equal(t, os.Stderr, out.w)
		// Console streams are never synced or closed
		assert.Nil(t, out.sync)
	})

	t.Run("external sink wins", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EnableFile = true
		cfg.Directory = filepath.Join(t.TempDir(), "unused")
		sink := &syncBuffer{}

		out, err := openOutput(cfg, sink)
		require.NoError(t, err)
		assert.Same(t, sink, out.w)
		assert.Nil(t, out.file)

		_, err = os.Stat(cfg.Directory)
		assert.True(t, os.IsNotExist(err), "external sink must not create the log directory")
	})

	t.Run("file and console", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.EnableFile = true
		cfg.Directory = t.TempDir()

		out, err := openOutput(cfg, nil)
		require.NoError(t, err)
		require.NotNil(t, out.file)
		assert.NotNil(t, out.sync)
		assert.Equal(t, filepath.Join(cfg.Directory, "trade.log"), out.path)
		assert.NoError(t, out.close())
		assert.Nil(t, out.file)
	})

	t.Run("unwritable directory", func(t *testing.T) {
		tmpDir := t.TempDir()
		blocker := filepath.Join(tmpDir, "file")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))

		cfg := DefaultConfig()
		cfg.EnableFile = true
		cfg.Directory = filepath.Join(blocker, "logs")

		_, err := openOutput(cfg, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create log directory")
	})
}

func TestGetStaticLogFilePath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Directory = "/var/log/trading"
	assert.Equal(t, "/var/log/trading/trade.log", getStaticLogFilePath(cfg))

	cfg.Extension = ""
	assert.True(t, strings.HasSuffix(getStaticLogFilePath(cfg), "/trade"))
}
