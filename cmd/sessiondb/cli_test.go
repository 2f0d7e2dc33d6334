package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aretw0/sessiondb"
	"github.com/aretw0/sessiondb/pkg/adapters/memory"
	"github.com/aretw0/sessiondb/pkg/codec"
	"github.com/aretw0/sessiondb/pkg/lock"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0101010101010101010101010101010101010101010101010101010101010101"

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

// resetFlags restores every flag to its default; cobra keeps values between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

// seed creates one session in a fresh database and returns the config path and key.
func seed(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "sessions.db")
	cfgPath := filepath.Join(dir, "sessiondb.yaml")
	writeConfig(t, cfgPath, "database:\n  driver: sqlite3\n  dsn: "+dsn+"\nsession:\n  key: "+testKey+"\nlog:\n  level: error\n")

	c, err := codec.New(codec.Config{ActiveKey: bytes.Repeat([]byte{1}, codec.KeySize)})
	require.NoError(t, err)
	rt, err := sessiondb.Open("sqlite3", dsn, sessiondb.WithCodec(c), sessiondb.WithSchema())
	require.NoError(t, err)
	defer rt.Close()

	ctx := context.Background()
	lc, release, err := rt.Begin(ctx)
	require.NoError(t, err)
	defer release()
	require.NoError(t, lc.Start(ctx, memory.NewCookieJar(nil), false))
	lc.Set("user", "alice")
	key := lc.Key()
	require.NoError(t, lc.End(ctx))
	return cfgPath, key
}

func TestCLI_Lockname(t *testing.T) {
	out, err := run(t, "lockname", "abc123")
	require.NoError(t, err)
	assert.Contains(t, out, lock.Name("abc123"))
	assert.Contains(t, out, "advisory32:")
}

func TestCLI_Schema(t *testing.T) {
	out, err := run(t, "schema", "--config", "", "--driver", "postgres", "--backend", "advisory")
	require.NoError(t, err)
	assert.Contains(t, out, "CREATE TABLE IF NOT EXISTS session")
	assert.NotContains(t, out, "lock")
}

func TestCLI_SessionCommands(t *testing.T) {
	cfgPath, key := seed(t)

	out, err := run(t, "session", "ls", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, key)

	out, err = run(t, "session", "inspect", key, "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, `"user": "alice"`)

	out, err = run(t, "session", "gc", "--config", cfgPath, "--max-age", "48h")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed 0 session(s)")

	out, err = run(t, "session", "rm", key, "missing", "--config", cfgPath)
	assert.Error(t, err)
	assert.Contains(t, out, "Removed session '"+key+"'")

	out, err = run(t, "session", "ls", "--config", cfgPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "No sessions found."))
}
