package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/arthur-debert/dsfixtures/pkg/fixtures"
	"github.com/arthur-debert/dsfixtures/pkg/platform"
	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, LocalConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)

		assert.Equal(t, BackendSQLite, cfg.Store.Backend)
		assert.Equal(t, "", cfg.Store.Path)
		assert.Equal(t, "dataset", cfg.Store.Prefix)
		assert.Equal(t, platform.Windows, cfg.Platform.Skip)
		assert.Equal(t, fixtures.WindowsSkipReason, cfg.Platform.Reason)
		assert.Equal(t, "", cfg.Platform.Override)
		assert.Equal(t, 0, cfg.Log.Verbosity)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("explicit_file", func(t *testing.T) {
		t.Chdir(t.TempDir())
		path := writeConfig(t, t.TempDir(), `
[store]
backend = "memory"
path = "/tmp/x.db"

[log]
verbosity = 2
`)

		cfg, err := Load(LoadOptions{File: path})
		require.NoError(t, err)

		assert.Equal(t, BackendMemory, cfg.Store.Backend)
		assert.Equal(t, "/tmp/x.db", cfg.Store.Path)
		assert.Equal(t, "dataset", cfg.Store.Prefix, "unset keys keep their defaults")
		assert.Equal(t, 2, cfg.Log.Verbosity)
	})

	t.Run("explicit_file_missing", func(t *testing.T) {
		_, err := Load(LoadOptions{File: filepath.Join(t.TempDir(), "nope.toml")})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigLoad))
	})

	t.Run("file_from_env", func(t *testing.T) {
		t.Chdir(t.TempDir())
		path := writeConfig(t, t.TempDir(), "[store]\nprefix = \"ci\"\n")
		t.Setenv(EnvConfigFile, path)

		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "ci", cfg.Store.Prefix)
	})

	t.Run("local_file", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)
		writeConfig(t, dir, "[platform]\noverride = \"Darwin\"\n")

		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Darwin", cfg.Platform.Override)
	})

	t.Run("malformed_file", func(t *testing.T) {
		path := writeConfig(t, t.TempDir(), "[store\nbackend = ")

		_, err := Load(LoadOptions{File: path})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	})

	t.Run("env_vars", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("DSFIXTURES_STORE_BACKEND", "memory")
		t.Setenv("DSFIXTURES_LOG_VERBOSITY", "3")
		t.Setenv("DSFIXTURES_PLATFORM_SKIP", "Darwin")
		t.Setenv("DSFIXTURES_DATA_DIR", "/somewhere")

		cfg, err := Load(LoadOptions{})
		require.NoError(t, err)

		assert.Equal(t, BackendMemory, cfg.Store.Backend)
		assert.Equal(t, 3, cfg.Log.Verbosity)
		assert.Equal(t, "Darwin", cfg.Platform.Skip)
	})

	t.Run("overrides_win", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("DSFIXTURES_STORE_BACKEND", "memory")
		t.Setenv("DSFIXTURES_STORE_PREFIX", "from-env")

		cfg, err := Load(LoadOptions{Overrides: map[string]interface{}{
			"store.backend": "sqlite",
			"store.prefix":  "",
			"store.path":    nil,
		}})
		require.NoError(t, err)

		assert.Equal(t, BackendSQLite, cfg.Store.Backend)
		assert.Equal(t, "from-env", cfg.Store.Prefix, "empty overrides are ignored")
		assert.Equal(t, "", cfg.Store.Path)
	})

	t.Run("invalid_backend", func(t *testing.T) {
		t.Chdir(t.TempDir())
		_, err := Load(LoadOptions{Overrides: map[string]interface{}{"store.backend": "postgres"}})
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
		assert.Contains(t, err.Error(), "postgres")
	})
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"DSFIXTURES_STORE_BACKEND", "store.backend"},
		{"DSFIXTURES_LOG_VERBOSITY", "log.verbosity"},
		{"DSFIXTURES_PLATFORM_OVERRIDE", "platform.override"},
		{"DSFIXTURES_CONFIG", ""},
		{"DSFIXTURES_DATA_DIR", ""},
		{"DSFIXTURES_STATE_DIR", ""},
		{"DSFIXTURES_STORE_", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envKey(tt.in))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "memory", mutate: func(c *Config) { c.Store.Backend = BackendMemory }},
		{name: "empty skip disables skipping", mutate: func(c *Config) { c.Platform.Skip = "" }},
		{name: "unknown backend", mutate: func(c *Config) { c.Store.Backend = "redis" }, wantErr: true},
		{name: "empty backend", mutate: func(c *Config) { c.Store.Backend = "" }, wantErr: true},
		{name: "blank prefix", mutate: func(c *Config) { c.Store.Prefix = "  " }, wantErr: true},
		{name: "prefix with space", mutate: func(c *Config) { c.Store.Prefix = "my data" }, wantErr: true},
		{name: "prefix with slash", mutate: func(c *Config) { c.Store.Prefix = "a/b" }, wantErr: true},
		{name: "negative verbosity", mutate: func(c *Config) { c.Log.Verbosity = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfigValid))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestProbeAndSkipPolicy(t *testing.T) {
	t.Setenv(EnvPlatformOverride, "")
	cfg := Default()
	assert.Equal(t, platform.Runtime.Name(), cfg.Probe().Name())

	cfg.Platform.Override = platform.Windows
	assert.Equal(t, platform.Windows, cfg.Probe().Name())

	assert.True(t, cfg.WouldSkip("Windows"))
	assert.False(t, cfg.WouldSkip("windows"))
	assert.False(t, cfg.WouldSkip("Linux"))

	cfg.Platform.Skip = ""
	assert.False(t, cfg.WouldSkip(""))
}

func TestProbeFollowsEnvironment(t *testing.T) {
	t.Setenv(EnvPlatformOverride, "")
	probe := Default().Probe()
	assert.Equal(t, platform.Runtime.Name(), probe.Name())

	t.Setenv(EnvPlatformOverride, "Plan9")
	assert.Equal(t, "Plan9", probe.Name())

	cfg := Default()
	cfg.Platform.Override = "Linux"
	assert.Equal(t, "Linux", cfg.Probe().Name(), "configured override beats the environment")
}

func TestSuiteAppliesSkipPolicy(t *testing.T) {
	run := func(t *testing.T, cfg *Config) (ran bool) {
		t.Helper()
		t.Run("body", cfg.Suite(nil).Skip(func(t *testing.T) { ran = true }))
		return ran
	}

	t.Run("custom platform and reason", func(t *testing.T) {
		cfg := Default()
		cfg.Platform.Override = "Darwin"
		cfg.Platform.Skip = "Darwin"
		cfg.Platform.Reason = "no fsevents in CI"

		suite := cfg.Suite(nil)
		assert.Equal(t, "Darwin", suite.SkipPlatform)
		assert.Equal(t, "no fsevents in CI", suite.SkipReason)
		assert.True(t, cfg.WouldSkip("Darwin"))
		assert.False(t, run(t, cfg))
	})

	t.Run("default policy leaves other platforms alone", func(t *testing.T) {
		cfg := Default()
		cfg.Platform.Override = "Linux"

		assert.False(t, cfg.WouldSkip("Linux"))
		assert.True(t, run(t, cfg))
	})

	t.Run("empty skip disables skipping", func(t *testing.T) {
		cfg := Default()
		cfg.Platform.Override = platform.Windows
		cfg.Platform.Skip = ""

		assert.False(t, cfg.WouldSkip(platform.Windows))
		assert.True(t, run(t, cfg))
	})

	t.Run("default matches SkipWindows", func(t *testing.T) {
		cfg := Default()
		suite := cfg.Suite(nil)
		assert.Equal(t, platform.Windows, suite.SkipPlatform)
		assert.Equal(t, fixtures.WindowsSkipReason, suite.SkipReason)
	})
}

func TestDatastoreOptions(t *testing.T) {
	cfg := Default()
	cfg.Store.Prefix = "ci"
	assert.Equal(t, "ci", cfg.DatastoreOptions().Prefix)
}

func TestToTOML(t *testing.T) {
	cfg := Default()
	cfg.Store.Backend = BackendMemory
	cfg.Log.Verbosity = 1

	out, err := cfg.ToTOML()
	require.NoError(t, err)
	assert.Contains(t, string(out), "[store]")
	assert.Contains(t, string(out), "[platform]")

	var back Config
	require.NoError(t, toml.Unmarshal(out, &back))
	assert.Equal(t, *cfg, back)
}
