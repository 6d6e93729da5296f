package config

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	getter "github.com/hashicorp/go-getter"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed config.schema.json
var schemaJSON string

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("config.schema.json", schemaJSON)
})

// Load reads a YAML config file. Fields missing from the file keep their
// DefaultConfig values.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// Parse validates raw against the config schema and decodes it over
// DefaultConfig.
func Parse(raw []byte) (*Config, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		doc = map[string]any{}
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// validate checks a decoded YAML document against the embedded schema. The
// document is round-tripped through JSON so the validator sees JSON types.
func validate(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("config is not a JSON-compatible document: %w", err)
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Fetch downloads a config file from any go-getter source (local path,
// http(s), git, s3) into dir and returns its local path.
func Fetch(ctx context.Context, src, dir string) (string, error) {
	pwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	dst := filepath.Join(dir, "terrain.yaml")
	withPwd := func(c *getter.Client) error {
		c.Pwd = pwd
		return nil
	}
	if err := getter.GetFile(dst, src, getter.WithContext(ctx), withPwd); err != nil {
		return "", fmt.Errorf("fetch config %s: %w", src, err)
	}
	return dst, nil
}

// LoadSource fetches src into a temporary directory and loads it.
func LoadSource(ctx context.Context, src string) (*Config, error) {
	dir, err := os.MkdirTemp("", "terrain-config-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path, err := Fetch(ctx, src, dir)
	if err != nil {
		return nil, err
	}
	return Load(path)
}
