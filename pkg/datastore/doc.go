// Package datastore provides the dataset stores that fixture wrappers run
// against. The in-memory store backs unit tests; the sqlite subpackage is
// the persistent backend used by the CLI and by integration runs. Open picks
// one from configuration.
package datastore
