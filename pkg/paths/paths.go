package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvDataDir overrides the XDG data directory for dsfixtures
	EnvDataDir = "DSFIXTURES_DATA_DIR"

	// EnvStateDir overrides the XDG state directory for dsfixtures
	EnvStateDir = "DSFIXTURES_STATE_DIR"
)

// Fixed names inside the data and state directories.
const (
	// AppDirName is the directory name for dsfixtures-specific files
	AppDirName = "dsfixtures"

	// DatabaseFile is the default SQLite database file name
	DatabaseFile = "datasets.db"

	// LogFile is the name of the log file under the state directory
	LogFile = "dsfixtures.log"
)

// DataDir returns the directory holding the dataset database. XDG_DATA_HOME
// is read on every call so tests can redirect it with t.Setenv.
func DataDir() string {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return expandHome(dir)
	}
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, AppDirName)
	}
	return filepath.Join(xdg.DataHome, AppDirName)
}

// StateDir returns the directory holding logs, resolved like DataDir.
func StateDir() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return expandHome(dir)
	}
	if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		return filepath.Join(stateHome, AppDirName)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// DefaultDatabasePath is where the sqlite backend lives when no path is configured.
func DefaultDatabasePath() string {
	return filepath.Join(DataDir(), DatabaseFile)
}

// LogFilePath returns the path of the log file.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFile)
}

// ExpandHome expands a leading "~/" to the user's home directory.
func ExpandHome(path string) string {
	return expandHome(path)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
