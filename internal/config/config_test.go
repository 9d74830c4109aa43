package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
)

// songdoOrigin is the canonical reference point from
// mesh_generator.py's SONGDO_ORIGIN (lon, lat) -- the real default,
// independent of however DefaultOrigin happens to be wired up.
var songdoOrigin = orb.Point{126.615, 37.355}

func TestLoad_DefaultsWhenNoEnvFilesPresent(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, ".env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ChunkSize != DefaultChunkSizeMeters {
		t.Fatalf("expected default chunk size %v, got %v", DefaultChunkSizeMeters, cfg.ChunkSize)
	}
	if cfg.Origin != songdoOrigin {
		t.Fatalf("expected default origin %v (Songdo reference point), got %v", songdoOrigin, cfg.Origin)
	}
}

func TestLoad_EnvLocalOverridesEnv(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	localPath := filepath.Join(dir, ".env.local")

	os.WriteFile(envPath, []byte("CHUNK_SIZE_METERS=250\n"), 0o644)
	os.WriteFile(localPath, []byte("CHUNK_SIZE_METERS=100\n"), 0o644)
	defer os.Unsetenv("CHUNK_SIZE_METERS")

	cfg, err := Load(envPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ChunkSize != 100 {
		t.Fatalf("expected .env.local (100) to win over .env (250), got %v", cfg.ChunkSize)
	}
}

func TestLoad_RejectsNonPositiveChunkSize(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	os.WriteFile(envPath, []byte("CHUNK_SIZE_METERS=0\n"), 0o644)
	defer os.Unsetenv("CHUNK_SIZE_METERS")

	if _, err := Load(envPath); err == nil {
		t.Fatal("expected an error for a non-positive chunk size")
	}
}
