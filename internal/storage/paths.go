// Package storage archives finished and in-progress games, player accounts,
// and aggregate game statistics in BadgerDB.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessrules"

// GetDataDir returns the platform-specific data directory for the application.
// - macOS: ~/Library/Application Support/chessrules/
// - Linux: ~/.local/share/chessrules/
// - Windows: %APPDATA%/chessrules/
func GetDataDir() (string, error) {
	base, err := dataBase()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(base, appName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

func dataBase() (string, error) {
	switch runtime.GOOS {
	case "darwin":
		return underHome("", "Library", "Application Support")
	case "windows":
		return underHome("APPDATA", "AppData", "Roaming")
	default:
		return underHome("XDG_DATA_HOME", ".local", "share")
	}
}

// underHome returns $env when set, otherwise rel joined to the home directory.
func underHome(env string, rel ...string) (string, error) {
	if env != "" {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, rel...)...), nil
}

// GetDatabaseDir returns the directory holding the BadgerDB files.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}
	return dbDir, nil
}

// GetConfigPath returns the default location of the config file. The file
// itself may not exist.
func GetConfigPath() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "config.yaml"), nil
}
