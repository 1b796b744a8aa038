package config

import (
	"os"
	"path/filepath"
)

func loadProductionConfig(cfg *Config) {
	dataDir := os.Getenv("DATA_DIRECTORY")
	if dataDir == "" {
		dataDir = "/data"
	}

	cfg.DatabaseFilePath = filepath.Join(dataDir, "data.sqlite")
	cfg.LibraryPath = filepath.Join(dataDir, "library")

	if path := os.Getenv("DATABASE_FILE_PATH"); path != "" {
		cfg.DatabaseFilePath = path
	}
	if path := os.Getenv("LIBRARY_PATH"); path != "" {
		cfg.LibraryPath = path
	}
}
