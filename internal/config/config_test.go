package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLoadRequiresToken(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("BOT_TOKEN", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadYAMLThenEnv(t *testing.T) {
	chdir(t, t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
discord_token: from-yaml
staff_role_name: Moderadores
spam:
  limit: 8
  window_seconds: 5
confirm:
  timeout_seconds: 0
`), 0o644))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("BOT_TOKEN", "legacy-token")
	t.Setenv("NUKE_DELETES", "3")
	t.Setenv("HEALTH_ENABLED", "yes")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "legacy-token", cfg.DiscordToken)
	require.Equal(t, "Moderadores", cfg.StaffRoleName)
	require.Equal(t, 8, cfg.Spam.Limit)
	require.Equal(t, 5*time.Second, cfg.Spam.Window())
	require.Equal(t, 3, cfg.Nuke.Limit)
	require.Equal(t, 8*time.Second, cfg.Nuke.Window())
	require.Equal(t, 10*time.Second, cfg.Confirm.Timeout(), "non-positive timeout falls back to the default")
	require.True(t, cfg.Health.Enabled)
	require.Equal(t, DefaultSuperuserID, cfg.SuperuserID)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DISCORD_TOKEN=dotenv-token\nLOG_CHANNEL_ID=123\n"), 0o644))
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "none.yaml"))
	// godotenv never overrides variables that are already set, even to "".
	for _, key := range []string{"DISCORD_TOKEN", "BOT_TOKEN", "LOG_CHANNEL_ID"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "dotenv-token", cfg.DiscordToken)
	require.Equal(t, "123", cfg.LogChannelID)
}

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, WindowConfig{Limit: 6, WindowSeconds: 4}, cfg.Spam)
	require.Equal(t, WindowConfig{Limit: 2, WindowSeconds: 8}, cfg.Nuke)
	require.Equal(t, 120*time.Second, cfg.NewBot.Watch())
	require.Equal(t, "!", cfg.CommandPrefix)
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	require.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
	logger, err := BuildLogger("WARN")
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
