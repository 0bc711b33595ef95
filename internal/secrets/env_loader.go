package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// EnvLoader returns a Loader that reads the specified environment variables.
// Missing variables are silently omitted from the result map.
func EnvLoader(keys ...string) Loader {
	return func() (map[string]string, error) {
		vals := make(map[string]string, len(keys))
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				vals[k] = v
			}
		}
		return vals, nil
	}
}

// DotEnvLoader reads keys from the environment, then lets values in the
// dotenv file at path override them, so a reload picks up a rewritten
// file. A missing file is not an error.
func DotEnvLoader(path string, keys ...string) Loader {
	env := EnvLoader(keys...)
	return func() (map[string]string, error) {
		vals, _ := env()
		file, err := godotenv.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return vals, nil
			}
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for _, k := range keys {
			if v := file[k]; v != "" {
				vals[k] = v
			}
		}
		return vals, nil
	}
}
