package config

import "os"

func loadDevelopmentConfig(cfg *Config) {
	cfg.DatabaseDebug = true
	cfg.DatabaseFilePath = "./tmp/data.sqlite"
	cfg.LibraryPath = "./tmp/library"

	if path := os.Getenv("LIBRARY_PATH"); path != "" {
		cfg.LibraryPath = path
	}
}
