// Package api holds the file handling shared by every scout configuration kind.
package api

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// AppName is the directory name used under the user's config directory.
const AppName = "scout"

var (
	// ErrIsDirectory is returned when a file path points at a directory.
	ErrIsDirectory = errors.New("path is a directory")
	// ErrNotRegular is returned for sockets, devices and other special files.
	ErrNotRegular = errors.New("not a regular file")
)

// GetConfigPath returns the path of filename in scout's config directory:
// $XDG_CONFIG_HOME/scout, else ~/.config/scout, else a temp directory.
func GetConfigPath(filename string) string {
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		return filepath.Join(xdgHome, AppName, filename)
	}

	usrHome, err := os.UserHomeDir()
	if err == nil && usrHome != "" {
		return filepath.Join(usrHome, ".config", AppName, filename)
	}

	tmpPath := filepath.Join(os.TempDir(), AppName, filename)

	slog.Warn("could not determine user config directory, using temp path",
		slog.String("path", tmpPath),
		slog.Any("error", err),
	)

	return tmpPath
}

// statFile reports whether path exists as a regular file. It returns an
// error when the path exists but cannot hold a config file.
func statFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat file: %w", err)
	case info.IsDir():
		return false, fmt.Errorf("%s: %w", path, ErrIsDirectory)
	case !info.Mode().IsRegular():
		return false, fmt.Errorf("%s: %w", path, ErrNotRegular)
	}

	return true, nil
}

// ReadFile reads a regular file.
func ReadFile(path string) ([]byte, error) {
	exists, err := statFile(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("stat file: %w", fs.ErrNotExist)
	}

	data, err := os.ReadFile(path) //nolint:gosec // G304: Config paths are chosen by the user.
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// WriteIfNotExists writes data to path unless a file is already there.
func WriteIfNotExists(path string, data []byte) error {
	exists, err := statFile(path)
	if err != nil || exists {
		return err
	}

	return writeFile(path, data)
}

// FindConfigFile looks for any of fileNames in targetPath's directory and
// each of its parents. It returns an empty path when none is found.
func FindConfigFile(targetPath string, fileNames []string) (string, error) {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}

	dir := absPath
	if !info.IsDir() {
		dir = filepath.Dir(absPath)
	}

	for {
		for _, name := range fileNames {
			candidate := filepath.Join(dir, name)

			exists, err := statFile(candidate)
			if err != nil {
				slog.Debug("skip config candidate",
					slog.String("path", candidate),
					slog.Any("error", err),
				)

				continue
			}
			if exists {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}

		dir = parent
	}
}

// WriteDefaultFile writes defaultData to path when no file exists. With
// force, an existing file is renamed to `<name>.<unixnano>.old` first.
func WriteDefaultFile(path string, defaultData []byte, force bool, kind string) error {
	exists, err := statFile(path)
	if err != nil {
		return err
	}

	if exists && !force {
		slog.Debug("file already exists, skipping write",
			slog.String("kind", kind),
			slog.String("path", path),
		)

		return nil
	}

	if exists {
		backupPath := fmt.Sprintf("%s.%d.old", path, time.Now().UnixNano())

		slog.Info("backing up existing file",
			slog.String("kind", kind),
			slog.String("path", backupPath),
		)

		err = os.Rename(path, backupPath)
		if err != nil {
			return fmt.Errorf("back up %s file: %w", kind, err)
		}
	}

	slog.Info("write default file",
		slog.String("kind", kind),
		slog.String("path", path),
	)

	err = writeFile(path, defaultData)
	if err != nil {
		return fmt.Errorf("write %s file: %w", kind, err)
	}

	return nil
}

func writeFile(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
