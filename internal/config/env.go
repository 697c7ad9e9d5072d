package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// loadEnvFiles loads .env and .env.local from the working directory and the data dir.
// Variables already present in the environment win.
func loadEnvFiles(dataDir string) {
	var envFiles []string
	if wd, err := os.Getwd(); err == nil {
		envFiles = append(envFiles, filepath.Join(wd, ".env"), filepath.Join(wd, ".env.local"))
	}
	envFiles = append(envFiles, filepath.Join(dataDir, ".env"))

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}
