package config

import (
	_ "embed"
	stderrors "errors"
	"os"
	"reflect"
	"strings"

	"github.com/arthur-debert/dsfixtures/pkg/errors"
	"github.com/arthur-debert/dsfixtures/pkg/logging"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every environment variable read as configuration.
	EnvPrefix = "DSFIXTURES_"

	// EnvConfigFile names a config file to load.
	EnvConfigFile = "DSFIXTURES_CONFIG"

	// LocalConfigFile is loaded from the working directory when present.
	LocalConfigFile = "dsfixtures.toml"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// sections that environment variables may set
var sections = []string{"store", "platform", "log"}

type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, stderrors.New("not implemented")
}

// LoadOptions select the optional sources of Load.
type LoadOptions struct {
	// File is an explicit config file. It must exist.
	File string

	// Overrides are applied last, keyed by dotted path ("store.backend").
	// Empty string values are ignored so unset flags do not mask other sources.
	Overrides map[string]interface{}
}

// Load builds the effective configuration and validates it.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to load defaults")
	}

	// 2. Config file
	path, explicit := configFile(opts.File)
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if explicit {
				return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", path)
			}
		} else {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", path)
			}
			logger.Debug().Str("path", path).Msg("Loaded config file")
		}
	}

	// 3. Env vars
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Overrides
	if overrides := nonEmpty(opts.Overrides); len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				trimSpaceHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the embedded defaults alone.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic("config: embedded defaults are invalid: " + err.Error())
	}
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		panic("config: embedded defaults are invalid: " + err.Error())
	}
	return &cfg
}

// configFile returns the file to load and whether it was asked for
// explicitly.
func configFile(flag string) (string, bool) {
	if flag != "" {
		return flag, true
	}
	if fromEnv := os.Getenv(EnvConfigFile); fromEnv != "" {
		return fromEnv, true
	}
	return LocalConfigFile, false
}

// envKey maps DSFIXTURES_STORE_BACKEND to store.backend and drops
// variables outside the known sections, such as DSFIXTURES_DATA_DIR.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok || rest == "" {
		return ""
	}
	for _, known := range sections {
		if section == known {
			return section + "." + rest
		}
	}
	return ""
}

func nonEmpty(in map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		if s, ok := v.(string); ok && s == "" {
			continue
		}
		if v == nil {
			continue
		}
		out[k] = v
	}
	return out
}

func trimSpaceHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if s, ok := data.(string); ok && t.Kind() == reflect.String {
			return strings.TrimSpace(s), nil
		}
		return data, nil
	}
}
