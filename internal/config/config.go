// Package config loads pipeline configuration from environment
// variables and .env files, the way the rest of this project's ambient
// stack does it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"github.com/ximhear/songdo-meshbuilder/internal/projection"
)

// Config is the full set of settings a pipeline run needs.
type Config struct {
	Origin    orb.Point
	ChunkSize float64
	Database  DatabaseConfig
	S3        S3Config
	Paths     PathsConfig
}

// DatabaseConfig holds the optional Postgres job ledger connection.
// Left zero-valued, the pipeline simply runs without a ledger.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// S3Config holds the optional S3/R2 upload destination.
type S3Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Region          string
	Bucket          string
	BucketPath      string
}

// PathsConfig holds file system locations used by a run.
type PathsConfig struct {
	BuildingsGeoJSON string
	RoadsGeoJSON     string
	OutputDir        string
}

// DefaultOrigin is the Songdo reference point used throughout
// original_source/ (mesh_generator.py's SONGDO_ORIGIN), re-exported
// here so config defaults and the projection package never drift
// apart.
var DefaultOrigin = projection.DefaultOrigin

// DefaultChunkSizeMeters is the chunk edge length used when
// CHUNK_SIZE_METERS is unset.
const DefaultChunkSizeMeters = 500.0

// Load reads configuration from environment variables, preferring a
// sibling .env.local over .env the way Next.js projects do, then
// falling back to defaults. A non-positive chunk size is rejected.
func Load(envPath string) (*Config, error) {
	localEnvPath := strings.TrimSuffix(envPath, ".env") + ".env.local"
	if _, err := os.Stat(localEnvPath); err == nil {
		if err := loadEnvFile(localEnvPath); err != nil {
			return nil, fmt.Errorf("failed to load local env file: %w", err)
		}
	} else if _, err := os.Stat(envPath); err == nil {
		if err := loadEnvFile(envPath); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	defaultOutputDir := "./output/chunks"
	if home, err := os.UserHomeDir(); err == nil {
		defaultOutputDir = filepath.Join(home, "data", "songdo-mesh", "chunks")
	}

	origin := orb.Point{
		getEnvFloat("ORIGIN_LONGITUDE", DefaultOrigin.Lon()),
		getEnvFloat("ORIGIN_LATITUDE", DefaultOrigin.Lat()),
	}
	chunkSize := getEnvFloat("CHUNK_SIZE_METERS", DefaultChunkSizeMeters)

	cfg := &Config{
		Origin:    origin,
		ChunkSize: chunkSize,
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "songdo_meshbuilder"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		S3: S3Config{
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			Region:          getEnv("S3_REGION", "us-west-1"),
			Bucket:          getEnv("S3_BUCKET", "songdo-mesh-chunks"),
			BucketPath:      getEnv("S3_BUCKET_PATH", "chunks"),
		},
		Paths: PathsConfig{
			BuildingsGeoJSON: getEnv("BUILDINGS_GEOJSON", "./input/buildings.geojson"),
			RoadsGeoJSON:     getEnv("ROADS_GEOJSON", "./input/roads.geojson"),
			OutputDir:        getEnv("OUTPUT_DIR", defaultOutputDir),
		},
	}

	if cfg.ChunkSize <= 0 {
		return nil, fmt.Errorf("CHUNK_SIZE_METERS must be positive, got %v", cfg.ChunkSize)
	}

	return cfg, nil
}

func loadEnvFile(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	lines := strings.Split(string(content), "\n")
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			os.Setenv(key, value)
		}
	}

	return nil
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
