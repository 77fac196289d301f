// Package config loads and validates the updrift check configuration file.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://updrift.dev/schemas/check-config.schema.json"

// Config describes one application the checker watches.
type Config struct {
	AppcastURL  string `json:"appcastURL"`
	AppVersion  string `json:"appVersion"`
	UserAgent   string `json:"userAgent,omitempty"`
	MinisignKey string `json:"minisignKey,omitempty"`
	DownloadDir string `json:"downloadDir,omitempty"`
	StatePath   string `json:"statePath,omitempty"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse embedded config schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("register config schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// Load reads, schema-validates, and decodes the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse validates raw JSON config bytes against the embedded schema and
// decodes them.
func Parse(data []byte) (*Config, error) {
	sch, err := compiledSchema()
	if err != nil {
		return nil, err
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := sch.Validate(inst); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv overlays UPDRIFT_* environment variables onto cfg. Empty
// variables are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	overlay := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	overlay(&c.AppcastURL, "UPDRIFT_APPCAST_URL")
	overlay(&c.AppVersion, "UPDRIFT_APP_VERSION")
	overlay(&c.MinisignKey, "UPDRIFT_MINISIGN_KEY")
	overlay(&c.DownloadDir, "UPDRIFT_DOWNLOAD_DIR")
	overlay(&c.StatePath, "UPDRIFT_STATE_PATH")
}
