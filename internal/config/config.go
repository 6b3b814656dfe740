// Package config loads clipforge settings from the environment, with
// optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the api server and the CLI need to run.
type Config struct {
	// HTTPAddr is the listen address for cmd/api.
	HTTPAddr string

	// InputDir is where source media lives; render source refs resolve here.
	InputDir string
	// OutputDir is where rendered clips land.
	OutputDir string

	// FFmpegBin and FFprobeBin locate the engine binaries.
	FFmpegBin  string
	FFprobeBin string

	// RenderTimeout is the per-render wall-clock budget.
	RenderTimeout time.Duration
	// MaxConcurrentRenders caps simultaneous engine processes.
	MaxConcurrentRenders int64

	// DatabaseURL enables project persistence when set.
	DatabaseURL string
	// RedisAddr enables the metadata cache when set.
	RedisAddr     string
	RedisPassword string
	// MetadataTTL bounds how long probed metadata stays cached.
	MetadataTTL time.Duration

	// StorageProvider selects the artifact storage backend (local, gdrive).
	StorageProvider string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real env vars win over it.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddr:             Env("HTTP_ADDR", ":8080"),
		InputDir:             Env("INPUT_DIR", "./data/sources"),
		OutputDir:            Env("OUTPUT_DIR", "./data/clips"),
		FFmpegBin:            Env("FFMPEG_BIN", "ffmpeg"),
		FFprobeBin:           Env("FFPROBE_BIN", "ffprobe"),
		RenderTimeout:        DurationEnv("RENDER_TIMEOUT", 120*time.Second),
		MaxConcurrentRenders: int64(IntEnv("MAX_CONCURRENT_RENDERS", 2)),
		DatabaseURL:          Env("DATABASE_URL", ""),
		RedisAddr:            Env("REDIS_ADDR", ""),
		RedisPassword:        Env("REDIS_PASSWORD", ""),
		MetadataTTL:          DurationEnv("METADATA_TTL", 10*time.Minute),
		StorageProvider:      Env("STORAGE_PROVIDER", "local"),
	}
}

// EnsureDirs creates the input and output directories. Both must exist
// before any render is accepted.
func (c Config) EnsureDirs() error {
	for _, dir := range []string{c.InputDir, c.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

func Env(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func MustEnv(k string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}

// IntEnv reads an env var as int. If empty or invalid, returns def.
func IntEnv(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// DurationEnv reads an env var as a Go duration ("90s", "2m"). Bare numbers
// are taken as seconds. If empty or invalid, returns def.
func DurationEnv(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
