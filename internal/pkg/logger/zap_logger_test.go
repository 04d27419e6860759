package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.log")
	l := NewIsolatedLogger(path)

	l.Info("HUB", "client connected", map[string]interface{}{"clients": 1})
	l.Debug("HUB", "below file level", nil)
	_ = l.Sync()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []map[string]interface{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &entry))
		lines = append(lines, entry)
	}
	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "client connected", lines[0]["message"])
	assert.Equal(t, "HUB", lines[0]["module"])
}

func TestErrorCarriesErrorRef(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewWithCore(core)

	l.Error("SCHEDULER", "save failed", map[string]interface{}{"error": "boom"})
	l.Warn("SCHEDULER", "nil details", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "SCHEDULER", ctx["module"])
	assert.Equal(t, "boom", ctx["error_ref"])
	assert.Equal(t, map[string]interface{}{}, entries[1].ContextMap()["details"])
}
