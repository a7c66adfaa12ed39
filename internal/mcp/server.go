// Package mcp exposes the studio to agent clients over the Model
// Context Protocol.
package mcp

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"nanopack/internal/config"
	"nanopack/internal/studio"
)

// KnownTypes lists all valid tool type prefixes.
var KnownTypes = []string{"asset", "artwork", "compliance", "inventory", "template"}

// toolEntry pairs a tool definition with a handler factory.
type toolEntry struct {
	def     mcp.Tool
	handler func(*Handlers) server.ToolHandlerFunc
}

// toolRegistry maps tool names to their definitions and handler factories.
var toolRegistry = map[string]toolEntry{
	"asset_save": {
		def:     assetSaveToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAssetSave },
	},
	"asset_list": {
		def:     assetListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAssetList },
	},
	"asset_delete": {
		def:     assetDeleteToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAssetDelete },
	},
	"asset_bundle": {
		def:     assetBundleToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleAssetBundle },
	},
	"artwork_generate": {
		def:     artworkGenerateToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleArtworkGenerate },
	},
	"compliance_scan": {
		def:     complianceScanToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleComplianceScan },
	},
	"inventory_search": {
		def:     inventorySearchToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleInventorySearch },
	},
	"template_list": {
		def:     templateListToolDef,
		handler: func(h *Handlers) server.ToolHandlerFunc { return h.HandleTemplateList },
	},
}

// AllToolNames returns a list of all valid tool names.
func AllToolNames() []string {
	names := make([]string, 0, len(toolRegistry))
	for name := range toolRegistry {
		names = append(names, name)
	}
	return names
}

// ValidateDisabledTools returns a list of unknown tool names from the given list.
func ValidateDisabledTools(names []string) []string {
	unknown := make([]string, 0)
	for _, name := range names {
		if _, ok := toolRegistry[name]; !ok {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// ValidateDisabledTypes returns a list of unknown type names from the given list.
func ValidateDisabledTypes(names []string) []string {
	known := make(map[string]bool, len(KnownTypes))
	for _, t := range KnownTypes {
		known[t] = true
	}

	unknown := make([]string, 0)
	for _, name := range names {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	return unknown
}

// GetTypeForTool extracts the type name from a tool name.
// Tool names follow the pattern "type_action" (e.g., "asset_save" → "asset").
func GetTypeForTool(toolName string) string {
	if idx := strings.Index(toolName, "_"); idx > 0 {
		return toolName[:idx]
	}
	return ""
}

// ExpandTypesToTools returns all tool names belonging to the given types.
func ExpandTypesToTools(types []string) []string {
	if len(types) == 0 {
		return nil
	}

	typeSet := make(map[string]bool, len(types))
	for _, t := range types {
		typeSet[t] = true
	}

	tools := make([]string, 0)
	for name := range toolRegistry {
		typ := GetTypeForTool(name)
		if typeSet[typ] {
			tools = append(tools, name)
		}
	}
	return tools
}

// NewServer creates a new MCP server with NanoPack tools registered.
// Tools listed in cfg.DisabledTools or belonging to cfg.DisabledTypes
// are excluded from registration.
func NewServer(db *sql.DB, session *studio.Session, skus SKUSearcher, bundleDir string, cfg *config.Config, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"nanopack",
		version,
		server.WithToolCapabilities(true),
	)

	h := NewHandlers(db, session, skus, bundleDir)

	disabled := make(map[string]bool)
	for _, tool := range ExpandTypesToTools(cfg.DisabledTypes) {
		disabled[tool] = true
	}
	for _, name := range cfg.DisabledTools {
		disabled[name] = true
	}

	for name, entry := range toolRegistry {
		if disabled[name] {
			continue
		}
		s.AddTool(entry.def, entry.handler(h))
	}

	return s
}

// Run starts the MCP server using stdio transport.
func Run(db *sql.DB, session *studio.Session, skus SKUSearcher, bundleDir string, cfg *config.Config, version string) error {
	s := NewServer(db, session, skus, bundleDir, cfg, version)
	return server.ServeStdio(s)
}

// ToolHandlerFunc is the signature for tool handlers.
type ToolHandlerFunc func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
