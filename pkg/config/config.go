package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds runtime configuration for all novelhub binaries.
// Every field has a dev-friendly default so the crawler runs out of
// the box against a local MongoDB.
type Config struct {
	// Remote catalog API and the separate chapter-content API.
	CatalogBaseURL string `env:"NOVELHUB_CATALOG_URL" envDefault:"http://api.zhuishushenqi.com"`
	ChapterBaseURL string `env:"NOVELHUB_CHAPTER_URL" envDefault:"http://chapter2.zhuishushenqi.com"`

	// Document store.
	MongoURI      string `env:"NOVELHUB_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase string `env:"NOVELHUB_MONGO_DB"  envDefault:"bookdb"`

	// Base directory for per-book text artifacts.
	// Empty means ~/.novelhub/books.
	DownloadDir string `env:"NOVELHUB_DOWNLOAD_DIR"`

	// MaxInFlight caps concurrent HTTP requests across the whole process.
	MaxInFlight int64         `env:"NOVELHUB_MAX_INFLIGHT" envDefault:"1000"`
	PageSize    int           `env:"NOVELHUB_PAGE_SIZE"    envDefault:"50"`
	HTTPTimeout time.Duration `env:"NOVELHUB_HTTP_TIMEOUT" envDefault:"30s"`

	// FetchContent switches the sweep from metadata-only to full
	// chapter-text downloads.
	FetchContent bool `env:"NOVELHUB_FETCH_CONTENT" envDefault:"false"`

	// Sweep shape: top-level catalog partitions and result orderings.
	Partitions []string `env:"NOVELHUB_PARTITIONS" envDefault:"male,female,picture,press"`
	ListTypes  []string `env:"NOVELHUB_LIST_TYPES" envDefault:"hot"`

	// Read API listen address.
	APIAddr string `env:"NOVELHUB_API_ADDR" envDefault:":8080"`
}

// Load parses environment variables into a Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}

	if cfg.DownloadDir == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = "."
		}
		cfg.DownloadDir = filepath.Join(home, ".novelhub", "books")
	}

	return cfg, nil
}
