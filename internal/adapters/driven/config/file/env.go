package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment variables that override configuration keys.
const (
	EnvOpenAIKey     = "OPENAI_API_KEY"
	EnvOpenAIBaseURL = "OPENAI_BASE_URL"
	EnvDatabaseURL   = "ASKDOC_DATABASE_URL"
	EnvVectorBackend = "ASKDOC_VECTOR_BACKEND"
	EnvRedisAddr     = "ASKDOC_REDIS_ADDR"
	EnvRedisPassword = "ASKDOC_REDIS_PASSWORD"
	EnvCacheBackend  = "ASKDOC_CACHE_BACKEND"
)

const (
	envFileName     = ".env"
	backendPostgres = "postgres"
	backendRedis    = "redis"
)

var envKeys = map[string]string{
	EnvOpenAIKey:     "openai.api_key",
	EnvOpenAIBaseURL: "openai.base_url",
	EnvDatabaseURL:   "vector.dsn",
	EnvVectorBackend: "vector.backend",
	EnvRedisAddr:     "cache.redis_addr",
	EnvRedisPassword: "cache.redis_password",
	EnvCacheBackend:  "cache.backend",
}

// LoadEnv loads .env files from each directory in order. Variables already
// present in the environment are never overwritten, so earlier files win.
// Missing files are skipped.
func LoadEnv(dirs ...string) error {
	for _, dir := range dirs {
		path := filepath.Join(dir, envFileName)
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// EnvOverrides returns config keys set through the environment.
// A database URL selects the postgres vector backend and a Redis address
// selects the redis cache unless the backend variables say otherwise.
func EnvOverrides() map[string]string {
	return envOverrides(os.LookupEnv)
}

func envOverrides(lookup func(string) (string, bool)) map[string]string {
	out := make(map[string]string)
	for env, key := range envKeys {
		if v, ok := lookup(env); ok && v != "" {
			out[key] = v
		}
	}
	if _, ok := out["vector.dsn"]; ok {
		if _, set := out["vector.backend"]; !set {
			out["vector.backend"] = backendPostgres
		}
	}
	if _, ok := out["cache.redis_addr"]; ok {
		if _, set := out["cache.backend"]; !set {
			out["cache.backend"] = backendRedis
		}
	}
	return out
}
