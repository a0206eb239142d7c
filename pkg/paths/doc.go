// Package paths provides centralized path handling for dsfixtures.
// It follows the XDG Base Directory layout for the on-disk
// dataset database and the log file, with environment overrides for tests
// and CI workers that need a private location.
package paths
