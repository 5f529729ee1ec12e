package util

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/ValentinKolb/jKV/lib/value"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapString(t *testing.T) {
	text := strings.Repeat("word ", 30)
	for _, line := range strings.Split(WrapString(text), "\n") {
		assert.LessOrEqual(t, len(line), Wrap)
	}
	assert.Equal(t, "short text", WrapString("  short   text "))
}

func TestOpenDBFromViper(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cli.json")
	viper.Set("path", path)
	viper.Set("backend", "yaml")
	viper.Set("compression", "ZSTD")
	t.Cleanup(viper.Reset)

	database, err := OpenDB()
	require.NoError(t, err)
	info := database.GetInfo()
	assert.Equal(t, "yaml", info.Backend)
	assert.Equal(t, "zstd", info.Compression)

	require.NoError(t, database.Set("a", value.Record{"v": value.Int(1)}))
	require.NoError(t, CommitPending(database))
	assert.Equal(t, 0, database.GetInfo().PendingWrites)

	reopened, err := OpenDB()
	require.NoError(t, err)
	assert.True(t, reopened.Exists("a"))

	viper.Set("compression", "brotli")
	_, err = OpenDB()
	assert.Error(t, err)
}

func TestParseRecordArg(t *testing.T) {
	rec, err := ParseRecordArg(`{"name":"Alice","age":3}`)
	require.NoError(t, err)
	assert.Equal(t, value.String("Alice"), rec["name"])

	_, err = ParseRecordArg(`[1,2]`)
	assert.Error(t, err)
}
