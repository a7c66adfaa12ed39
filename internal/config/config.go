package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// GenAIAPIKey authenticates calls to the image-generation and
	// compliance-analysis endpoints. The NANOPACK_API_KEY environment
	// variable takes precedence over the file value.
	GenAIAPIKey string `json:"genai_api_key,omitempty"`

	// GenAIBaseURL overrides the generative API endpoint.
	GenAIBaseURL string `json:"genai_base_url,omitempty"`

	// ImageModel is the model used for artwork edits.
	ImageModel string `json:"image_model,omitempty"`

	// AnalysisModel is the model used for compliance scans.
	AnalysisModel string `json:"analysis_model,omitempty"`

	// InventoryBaseURL points at the ERP inventory service. When empty,
	// a built-in sample catalog backs SKU search and artwork sync is a
	// logged no-op.
	InventoryBaseURL string `json:"inventory_base_url,omitempty"`

	// TracerBinary is the external vector-tracing command.
	TracerBinary string `json:"tracer_binary,omitempty"`

	// GoogleToken is an OAuth access token for the Docs, Sheets and
	// Gmail export endpoints. Exports are disabled when empty. The
	// NANOPACK_GOOGLE_TOKEN environment variable takes precedence.
	GoogleToken string `json:"google_token,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized.
	// 0 means use sql.DB default. Only set if you experience contention.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	// DisabledTypes is a list of tool type prefixes to disable entirely.
	// Known types: "asset", "artwork", "compliance", "inventory", "template".
	DisabledTypes []string `json:"disabled_types,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		GenAIBaseURL:  "https://generativelanguage.googleapis.com",
		ImageModel:    "gemini-2.5-flash-image",
		AnalysisModel: "gemini-2.5-flash",
		TracerBinary:  "imagetracer",
	}
}

// Load loads configuration from baseDir/config.json, merged over the
// defaults. Returns default config if the file doesn't exist. The
// baseDir parameter allows tests to use t.TempDir() instead of
// ~/.nanopack.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	merged := Merge(DefaultConfig(), cfg)
	if key := os.Getenv("NANOPACK_API_KEY"); key != "" {
		merged.GenAIAPIKey = key
	}
	if token := os.Getenv("NANOPACK_GOOGLE_TOKEN"); token != "" {
		merged.GoogleToken = token
	}
	return merged, nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge combines base and overlay configs. Overlay values take
// precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.GenAIAPIKey = overlayString(base.GenAIAPIKey, overlay.GenAIAPIKey)
	result.GenAIBaseURL = overlayString(base.GenAIBaseURL, overlay.GenAIBaseURL)
	result.ImageModel = overlayString(base.ImageModel, overlay.ImageModel)
	result.AnalysisModel = overlayString(base.AnalysisModel, overlay.AnalysisModel)
	result.InventoryBaseURL = overlayString(base.InventoryBaseURL, overlay.InventoryBaseURL)
	result.TracerBinary = overlayString(base.TracerBinary, overlay.TracerBinary)
	result.GoogleToken = overlayString(base.GoogleToken, overlay.GoogleToken)

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}
	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.DisabledTypes = mergeStringSlice(base.DisabledTypes, overlay.DisabledTypes)

	return result
}

func overlayString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range append(append([]string{}, a...), b...) {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
