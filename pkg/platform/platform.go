// Package platform reports which operating system family the process runs on.
package platform

import (
	"os"
	"runtime"
	"strings"
)

// Windows is the name the probe reports on Windows hosts.
const Windows = "Windows"

// Probe reports the current platform name. Implementations are queried on
// every call and must not cache across environments.
type Probe interface {
	Name() string
}

// ProbeFunc adapts a plain function to Probe.
type ProbeFunc func() string

// Name calls f.
func (f ProbeFunc) Name() string { return f() }

// Runtime reports the platform the binary is running on.
var Runtime Probe = ProbeFunc(func() string { return SystemName(runtime.GOOS) })

// Static always reports name.
func Static(name string) Probe {
	return ProbeFunc(func() string { return name })
}

// Env reads the environment variable key on every call and falls back to
// fallback when it is unset or blank.
func Env(key string, fallback Probe) Probe {
	return ProbeFunc(func() string {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
		return fallback.Name()
	})
}

var systemNames = map[string]string{
	"windows":   Windows,
	"linux":     "Linux",
	"darwin":    "Darwin",
	"freebsd":   "FreeBSD",
	"openbsd":   "OpenBSD",
	"netbsd":    "NetBSD",
	"dragonfly": "DragonFly",
	"solaris":   "SunOS",
	"illumos":   "SunOS",
	"aix":       "AIX",
	"js":        "JS",
	"wasip1":    "WASI",
}

// SystemName converts a GOOS value into the OS family name used by
// skip policies ("Windows", "Linux", "Darwin", ...). Unknown values are
// returned with their first letter upper-cased.
func SystemName(goos string) string {
	if name, ok := systemNames[goos]; ok {
		return name
	}
	if goos == "" {
		return ""
	}
	return strings.ToUpper(goos[:1]) + goos[1:]
}
