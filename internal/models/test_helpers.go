package models

import (
	"os"
	"path/filepath"
	"testing"
)

// GetFixturePath returns the absolute path to a fixture file in the "testdata" directory relative to the project's root.
func GetFixturePath(t *testing.T, fixturePath string) string {
	t.Helper()

	absPath, err := filepath.Abs(filepath.Join("..", "..", "testdata", fixturePath))
	if err != nil {
		t.Fatalf("Failed to get absolute path to testdata/%s: %v", fixturePath, err)
	}

	return absPath
}

// LoadFixtureVehicles decodes a snapshot file from testdata.
func LoadFixtureVehicles(t *testing.T, fixturePath string) map[string]*Vehicle {
	t.Helper()

	f, err := os.Open(GetFixturePath(t, fixturePath))
	if err != nil {
		t.Fatalf("Failed to open fixture %s: %v", fixturePath, err)
	}
	defer f.Close() // nolint:errcheck

	vehicles, err := DecodeVehicles(f)
	if err != nil {
		t.Fatalf("Failed to decode fixture %s: %v", fixturePath, err)
	}
	return vehicles
}
