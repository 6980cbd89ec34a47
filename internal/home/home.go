package home

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultDirName is the default name for the studyagent home directory.
	DefaultDirName = ".studyagent"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// SnapshotsDirName holds debug snapshots of structuring runs.
	SnapshotsDirName = "snapshots"

	// UploadsDirName holds uploaded study materials.
	UploadsDirName = "uploads"

	// PromptsDirName holds prompt template overrides.
	PromptsDirName = "prompts"
)

// Dir represents the studyagent home directory structure.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.studyagent).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// SnapshotsPath returns the snapshot directory.
func (d *Dir) SnapshotsPath() string {
	return filepath.Join(d.path, SnapshotsDirName)
}

// UploadsPath returns the uploads directory.
func (d *Dir) UploadsPath() string {
	return filepath.Join(d.path, UploadsDirName)
}

// PromptsPath returns the prompt override directory.
func (d *Dir) PromptsPath() string {
	return filepath.Join(d.path, PromptsDirName)
}

// EnsureExists creates the home directory and subdirectories if they don't exist.
func (d *Dir) EnsureExists() error {
	for _, dir := range []string{d.SnapshotsPath(), d.UploadsPath(), d.PromptsPath()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Exists returns true if the home directory exists.
func (d *Dir) Exists() bool {
	_, err := os.Stat(d.path)
	return err == nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// UploadPath returns a fresh path under the uploads directory for a file
// named name. Only the base name and extension of name are kept.
func (d *Dir) UploadPath(name string) string {
	base := filepath.Base(name)
	ext := strings.ToLower(filepath.Ext(base))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "upload"
	}
	return filepath.Join(d.UploadsPath(), fmt.Sprintf("%s_%s_%s%s",
		time.Now().UTC().Format("20060102T150405"), uuid.New().String()[:8], stem, ext))
}
