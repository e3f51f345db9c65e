// Package manifest records what one backup run directory contains: the run
// timestamp and a SHA-256 checksum per captured artifact.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const FileName = "manifest.json"

type Manifest struct {
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	Checksums map[string]string `json:"checksums"` // artifact name -> sha256 hex
}

// New returns an empty manifest for a run.
func New(timestamp, version string) *Manifest {
	return &Manifest{
		Timestamp: timestamp,
		Version:   version,
		Checksums: make(map[string]string),
	}
}

// AddFile hashes the file at path and records it under the artifact name.
func (m *Manifest) AddFile(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return fmt.Errorf("hashing %s: %w", path, err)
	}

	m.Checksums[name] = hex.EncodeToString(h.Sum(nil))
	return nil
}

// Write stores the manifest as manifest.json inside dir.
func (m *Manifest) Write(dir string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Load reads manifest.json from dir. Callers treat a missing or malformed
// manifest as "no information", not as an error worth surfacing.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", err)
	}
	return &m, nil
}

// ArtifactCount returns the number of recorded artifacts.
func (m *Manifest) ArtifactCount() int {
	return len(m.Checksums)
}
