package core

import (
	"os"
	"path/filepath"
)

type Paths struct {
	ConfigDir         string
	ConfigFile        string
	PromptsFile       string
	StoreFile         string
	LogFile           string
	HistoryFile       string
	SchemaVersionFile string
	LatestVersionFile string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		baseDir, err := os.UserConfigDir()
		if err != nil {
			panic(err)
		}

		setPaths(filepath.Join(baseDir, "xa"))

		err = os.MkdirAll(defaultPaths.ConfigDir, 0755)
		if err != nil {
			panic(err)
		}
	}
}

func setPaths(configDir string) {
	defaultPaths = &Paths{
		ConfigDir:         configDir,
		ConfigFile:        filepath.Join(configDir, "config.yaml"),
		PromptsFile:       filepath.Join(configDir, "prompts.yaml"),
		StoreFile:         filepath.Join(configDir, "store.yaml"),
		LogFile:           filepath.Join(configDir, "xa.log"),
		HistoryFile:       filepath.Join(configDir, "history.db"),
		SchemaVersionFile: filepath.Join(configDir, "history_schema_version"),
		LatestVersionFile: filepath.Join(configDir, "latest_version.txt"),
	}
}

func ConfigDir() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigDir
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

func PromptsFile() string {
	ensureDefaultPaths()
	return defaultPaths.PromptsFile
}

func StoreFile() string {
	ensureDefaultPaths()
	return defaultPaths.StoreFile
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func HistoryFile() string {
	ensureDefaultPaths()
	return defaultPaths.HistoryFile
}

func SchemaVersionFile() string {
	ensureDefaultPaths()
	return defaultPaths.SchemaVersionFile
}

func LatestVersionFile() string {
	ensureDefaultPaths()
	return defaultPaths.LatestVersionFile
}

// UseConfigDir points all paths at the given directory.
// This is primarily used for testing purposes.
func UseConfigDir(dir string) {
	setPaths(dir)
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
