package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONToFile(t *testing.T) {
	dir := t.TempDir()

	logger, err := New(Options{Env: "test", Dir: dir})
	require.NoError(t, err)

	logger.Debug("debug only in file", zap.String("period", "June 2025"))
	_ = logger.Sync()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "test_"))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"debug only in file"`)
	assert.Contains(t, string(data), `"period":"June 2025"`)
}
