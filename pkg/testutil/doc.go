// Package testutil provides utilities for testing dsfixtures components.
//
// Key components:
//   - TestEnvironment: per-test dataset store, platform probe and fixture
//     suite with isolation and cleanup
//   - MockStore: testify mock of types.Store for scripting store failures and
//     asserting call order
//
// Usage guidelines:
//   - Most tests should use EnvMemoryOnly for speed and isolation
//   - Use EnvIsolated when the behaviour under test depends on SQLite
//   - Each test gets its own store; never share one across parallel tests
package testutil
