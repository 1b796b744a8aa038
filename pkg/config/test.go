package config

import "os"

func loadTestConfig(cfg *Config) {
	cfg.DatabaseFilePath = ":memory:"
	cfg.LibraryPath = os.Getenv("LIBRARY_PATH")
}
