package env

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Dir is where per-environment .env files live, relative to the working directory
var Dir = filepath.Join("internal", "config", "env")

// Candidates returns the .env files to try, most specific first
func Candidates() []string {
	envName := os.Getenv("ENV")
	if envName == "" {
		envName = "development"
	}
	return []string{
		filepath.Join(Dir, fmt.Sprintf(".env.%s", envName)),
		".env",
	}
}

// LoadEnv loads the first readable file from Candidates. Variables already set
// in the process environment are never overwritten. It returns the loaded
// path, or "" when no file was found.
func LoadEnv() string {
	for _, loc := range Candidates() {
		if err := godotenv.Load(loc); err == nil {
			return loc
		}
	}
	return ""
}
