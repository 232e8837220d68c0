// Package store implements the tag-assisted secret store: an append-only,
// file-backed list of plaintext secrets where tagging on insert and
// retrieval by natural-language query are delegated to a text-generation
// service.
package store

import (
	"fmt"
	"os"

	"github.com/execanything/xa/internal/core"
	"gopkg.in/yaml.v3"
)

// Entry is one stored secret.
type Entry struct {
	ID        int64  `yaml:"id"`
	Tag       string `yaml:"tag"`
	Note      string `yaml:"note"`
	Secret    string `yaml:"secret"`
	CreatedAt string `yaml:"created_at"`
}

// File is the persisted ordered list of entries.
type File struct {
	Entries []Entry `yaml:"entries"`
}

// LoadFile reads the store file. A missing file yields an empty store. A
// corrupted file is renamed to a .backup suffix and replaced by an empty
// store; the recovery is reported on stderr but never fails the invocation.
func LoadFile() (*File, error) {
	path := core.StoreFile()

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to read store file: %w", err)
	}

	file := &File{}
	if err := yaml.Unmarshal(content, file); err != nil {
		backupPath := path + ".backup"
		if renameErr := os.Rename(path, backupPath); renameErr != nil {
			return nil, fmt.Errorf("failed to back up corrupted store file: %w", renameErr)
		}
		fmt.Fprintf(os.Stderr, "Warning: corrupted store file detected. Backed up to %s and started a new one.\n", backupPath)
		return &File{}, nil
	}

	return file, nil
}

// Save writes the store file.
func (f *File) Save() error {
	content, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to serialize store: %w", err)
	}

	if err := os.MkdirAll(core.ConfigDir(), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(core.StoreFile(), content, 0600); err != nil {
		return fmt.Errorf("failed to write store file: %w", err)
	}

	return nil
}
