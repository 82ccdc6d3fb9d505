package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/cart-discount/internal/discount"
)

// Loader reads rule and cart files from disk. Failures are logged and
// swallowed: a broken rule file yields an all-unset config and a broken cart
// file leaves the engine's cart as it was.
type Loader struct {
	Logger zerolog.Logger
}

// Config loads a discount rule file.
func (l Loader) Config(path string) discount.Config {
	data, err := ReadDocument(path)
	if err != nil {
		l.Logger.Warn().Err(err).Str("path", path).Msg("load discount rules")
		return discount.Config{}
	}
	cfg, err := discount.ParseConfig(data)
	if err != nil {
		l.Logger.Warn().Err(err).Str("path", path).Msg("parse discount rules")
		return discount.Config{}
	}
	l.Logger.Debug().Str("path", path).Int("categories", len(cfg.OnTopCategoryDiscounts())).Msg("discount rules loaded")
	return cfg
}

// Cart loads a cart file into engine and reports whether it succeeded.
func (l Loader) Cart(engine *discount.Engine, path string) bool {
	if engine == nil {
		l.Logger.Error().Str("path", path).Msg("load cart: engine not configured")
		return false
	}
	data, err := ReadDocument(path)
	if err != nil {
		l.Logger.Warn().Err(err).Str("path", path).Msg("load cart")
		return false
	}
	if err := engine.LoadCartJSON(data); err != nil {
		l.Logger.Warn().Err(err).Str("path", path).Msg("parse cart")
		return false
	}
	l.Logger.Debug().Str("path", path).Int("items", len(engine.Cart())).Msg("cart loaded")
	return true
}

// ReadDocument returns the file contents as JSON. YAML files (.yaml, .yml)
// are converted so both formats share one decoder.
func ReadDocument(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, fmt.Errorf("decode yaml %s: %w", path, err)
		}
		return converted, nil
	default:
		return data, nil
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	normalized, err := normalizeYAML(doc)
	if err != nil {
		return nil, err
	}
	return json.Marshal(normalized)
}

// normalizeYAML rewrites map[any]any nodes, which encoding/json rejects, into
// string-keyed maps.
func normalizeYAML(v any) (any, error) {
	switch node := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			n, err := normalizeYAML(child)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(node))
		for k, child := range node {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("non-string key %v", k)
			}
			n, err := normalizeYAML(child)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(node))
		for i, child := range node {
			n, err := normalizeYAML(child)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	default:
		return v, nil
	}
}
