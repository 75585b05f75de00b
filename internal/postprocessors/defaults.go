package postprocessors

import (
	"github.com/custodia-labs/askdoc/internal/core/ports/driven"
	"github.com/custodia-labs/askdoc/internal/logger"
	"github.com/custodia-labs/askdoc/internal/postprocessors/chunker"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// ChunkingPipeline returns a pipeline that chunks at maxLength characters.
func ChunkingPipeline(r *Registry, maxLength int) (*Pipeline, error) {
	p, err := r.BuildPipeline([]string{"chunker"}, map[string]map[string]any{
		"chunker": {"max_length": maxLength},
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Chunking pipeline %v at %d characters", p.Names(), maxLength)
	return p, nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - max_length (int): Soft chunk size in characters (default: 1000)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if size := getIntFromConfig(cfg, "max_length"); size > 0 {
		opts = append(opts, chunker.WithMaxLength(size))
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
