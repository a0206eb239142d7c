// Package config loads dsfixtures settings with koanf.
//
// Sources are applied in order, later ones winning:
//
//  1. embedded defaults (embedded/defaults.toml)
//  2. a TOML file: LoadOptions.File, $DSFIXTURES_CONFIG or ./dsfixtures.toml
//  3. DSFIXTURES_<SECTION>_<KEY> environment variables
//  4. LoadOptions.Overrides, typically command line flags
package config
