// Package types defines the dataset entity and the store interfaces shared
// by the fixture wrappers, the store backends and the CLI.
package types
