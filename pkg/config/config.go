package config

import (
	"slices"
	"strings"

	"github.com/arthur-debert/dsfixtures/pkg/datastore"
	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/arthur-debert/dsfixtures/pkg/fixtures"
	"github.com/arthur-debert/dsfixtures/pkg/platform"
	"github.com/arthur-debert/dsfixtures/pkg/types"
	"github.com/pelletier/go-toml/v2"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Backends lists the accepted values of store.backend.
var Backends = []string{BackendMemory, BackendSQLite}

// Config is the effective dsfixtures configuration.
type Config struct {
	Store    Store    `koanf:"store" toml:"store" json:"store" yaml:"store"`
	Platform Platform `koanf:"platform" toml:"platform" json:"platform" yaml:"platform"`
	Log      Log      `koanf:"log" toml:"log" json:"log" yaml:"log"`
}

// Store selects and tunes the dataset store.
type Store struct {
	Backend string `koanf:"backend" toml:"backend" json:"backend" yaml:"backend"`
	// Path is the sqlite database file. Ignored by the memory backend.
	Path   string `koanf:"path" toml:"path" json:"path" yaml:"path"`
	Prefix string `koanf:"prefix" toml:"prefix" json:"prefix" yaml:"prefix"`
}

// Platform controls the platform probe and the skip policy.
type Platform struct {
	Override string `koanf:"override" toml:"override" json:"override" yaml:"override"`
	Skip     string `koanf:"skip" toml:"skip" json:"skip" yaml:"skip"`
	Reason   string `koanf:"reason" toml:"reason" json:"reason" yaml:"reason"`
}

// Log holds logging settings.
type Log struct {
	Verbosity int `koanf:"verbosity" toml:"verbosity" json:"verbosity" yaml:"verbosity"`
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !slices.Contains(Backends, c.Store.Backend) {
		return errors.Newf(errors.ErrConfigValid, "unknown store backend %q (want one of %s)",
			c.Store.Backend, strings.Join(Backends, ", ")).
			WithDetail("key", "store.backend")
	}
	prefix := c.Store.Prefix
	if strings.TrimSpace(prefix) == "" {
		return errors.New(errors.ErrConfigValid, "store prefix must not be empty").
			WithDetail("key", "store.prefix")
	}
	if strings.ContainsAny(prefix, " \t\n/") {
		return errors.Newf(errors.ErrConfigValid, "store prefix %q must not contain whitespace or '/'", prefix).
			WithDetail("key", "store.prefix")
	}
	if c.Log.Verbosity < 0 {
		return errors.Newf(errors.ErrConfigValid, "log verbosity must be >= 0, got %d", c.Log.Verbosity).
			WithDetail("key", "log.verbosity")
	}
	return nil
}

// EnvPlatformOverride is re-read by Probe on every query, so a probe built
// from a loaded config still follows later changes to the variable.
const EnvPlatformOverride = EnvPrefix + "PLATFORM_OVERRIDE"

// Probe returns the platform probe described by c: the override when set,
// otherwise EnvPlatformOverride falling back to the running system.
func (c *Config) Probe() platform.Probe {
	if c.Platform.Override != "" {
		return platform.Static(c.Platform.Override)
	}
	return platform.Env(EnvPlatformOverride, platform.Runtime)
}

// Suite returns a fixtures suite over store that applies c's probe and
// skip policy.
func (c *Config) Suite(store types.Store, opts ...fixtures.Option) *fixtures.Suite {
	s := fixtures.NewSuite(store, c.Probe(), opts...)
	s.SkipPlatform = c.Platform.Skip
	s.SkipReason = c.Platform.Reason
	return s
}

// WouldSkip reports whether Suite(...).Skip skips its body on name.
func (c *Config) WouldSkip(name string) bool {
	return c.Suite(nil).WouldSkip(name)
}

// DatastoreOptions returns the naming options for store backends.
func (c *Config) DatastoreOptions() datastore.Options {
	return datastore.Options{Prefix: c.Store.Prefix}
}

// ToTOML renders c as a TOML document.
func (c *Config) ToTOML() ([]byte, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "encode config as toml")
	}
	return out, nil
}
