package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"nanopack/internal/compliance"
	"nanopack/internal/config"
	"nanopack/internal/db"
	"nanopack/internal/inventory"
	"nanopack/internal/studio"
	"nanopack/internal/vectorize"
)

type stubEditor struct{ result string }

func (s stubEditor) EditImage(ctx context.Context, dataURI, prompt string) (string, error) {
	return s.result, nil
}

type stubScanner struct{}

func (stubScanner) Scan(ctx context.Context, dataURI, industry string) (*compliance.Report, error) {
	return &compliance.Report{Score: 75, Status: compliance.StatusWarning, Checks: []compliance.Check{}}, nil
}

type stubTracer struct{}

func (stubTracer) Trace(ctx context.Context, raster []byte, opts vectorize.Options) (string, error) {
	return "<svg/>", nil
}

// testSetup creates a temporary database and handlers for testing.
func testSetup(t *testing.T) (*sql.DB, *Handlers) {
	t.Helper()

	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	inv := inventory.NewClient("", nil)
	session := studio.NewSession(database, stubEditor{result: "data:image/png;base64,BBB="}, stubScanner{}, stubTracer{}, inv, nil)
	h := NewHandlers(database, session, inv, filepath.Join(tmpDir, "bundles"))
	return database, h
}

// makeRequest creates a CallToolRequest with the given arguments.
func makeRequest(args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: args,
		},
	}
}

// resultText extracts the text payload from a tool result.
func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("result has no content")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", res.Content[0])
	}
	return tc.Text
}

func saveArgs(name string) map[string]any {
	return map[string]any{
		"project_name": name,
		"variant":      1,
		"kind":         "vector",
		"payload":      "<svg/>",
	}
}

func TestAssetSaveAndList(t *testing.T) {
	_, h := testSetup(t)
	ctx := context.Background()

	res, err := h.HandleAssetSave(ctx, makeRequest(saveArgs("Granola")))
	if err != nil {
		t.Fatalf("HandleAssetSave failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	var saved struct {
		Asset struct {
			ID       string `json:"id"`
			FileName string `json:"file_name"`
		} `json:"asset"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &saved); err != nil {
		t.Fatalf("decode save result: %v", err)
	}
	if saved.Asset.ID == "" {
		t.Fatal("no id in save result")
	}
	if !strings.HasPrefix(saved.Asset.FileName, "granola_v001_") {
		t.Errorf("file name = %q", saved.Asset.FileName)
	}

	res, err = h.HandleAssetList(ctx, makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("HandleAssetList failed: %v", err)
	}
	var list struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &list); err != nil {
		t.Fatalf("decode list result: %v", err)
	}
	if list.Total != 1 {
		t.Errorf("total = %d, want 1", list.Total)
	}
}

func TestAssetSave_Invalid(t *testing.T) {
	_, h := testSetup(t)

	res, err := h.HandleAssetSave(context.Background(), makeRequest(map[string]any{
		"project_name": "",
		"variant":      1,
		"kind":         "vector",
		"payload":      "<svg/>",
	}))
	if err != nil {
		t.Fatalf("handler returned transport error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(resultText(t, res), "INVALID_REQUEST") {
		t.Errorf("result = %s", resultText(t, res))
	}
}

func TestAssetDelete(t *testing.T) {
	_, h := testSetup(t)
	ctx := context.Background()

	res, _ := h.HandleAssetSave(ctx, makeRequest(saveArgs("Granola")))
	var saved struct {
		Asset struct {
			ID string `json:"id"`
		} `json:"asset"`
	}
	json.Unmarshal([]byte(resultText(t, res)), &saved)

	res, err := h.HandleAssetDelete(ctx, makeRequest(map[string]any{
		"ids": []string{saved.Asset.ID},
	}))
	if err != nil {
		t.Fatalf("HandleAssetDelete failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	var out struct {
		Deleted int `json:"deleted"`
	}
	json.Unmarshal([]byte(resultText(t, res)), &out)
	if out.Deleted != 1 {
		t.Errorf("deleted = %d, want 1", out.Deleted)
	}
}

func TestAssetDelete_NoIDs(t *testing.T) {
	_, h := testSetup(t)

	res, err := h.HandleAssetDelete(context.Background(), makeRequest(map[string]any{}))
	if err != nil {
		t.Fatalf("handler returned transport error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
}

func TestAssetBundle_WritesArchive(t *testing.T) {
	_, h := testSetup(t)
	ctx := context.Background()

	if err := os.MkdirAll(h.bundleDir, 0700); err != nil {
		t.Fatalf("mkdir bundles: %v", err)
	}

	res, _ := h.HandleAssetSave(ctx, makeRequest(saveArgs("Granola")))
	var saved struct {
		Asset struct {
			ID string `json:"id"`
		} `json:"asset"`
	}
	json.Unmarshal([]byte(resultText(t, res)), &saved)

	res, err := h.HandleAssetBundle(ctx, makeRequest(map[string]any{
		"ids":  []string{saved.Asset.ID},
		"name": "granola-pack",
	}))
	if err != nil {
		t.Fatalf("HandleAssetBundle failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}

	var out struct {
		Path  string `json:"path"`
		Count int    `json:"count"`
	}
	json.Unmarshal([]byte(resultText(t, res)), &out)
	if out.Count != 1 {
		t.Errorf("count = %d, want 1", out.Count)
	}
	if _, err := os.Stat(out.Path); err != nil {
		t.Errorf("archive not written: %v", err)
	}
	if filepath.Base(out.Path) != "granola-pack.zip" {
		t.Errorf("path = %q", out.Path)
	}
}

func TestArtworkGenerate(t *testing.T) {
	_, h := testSetup(t)

	res, err := h.HandleArtworkGenerate(context.Background(), makeRequest(map[string]any{
		"prompt":      "bolder colors",
		"source":      "data:image/png;base64,AAA=",
		"template_id": "pouch-standup-12oz",
	}))
	if err != nil {
		t.Fatalf("HandleArtworkGenerate failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	if !strings.Contains(resultText(t, res), "data:image/png;base64,BBB=") {
		t.Errorf("result = %s", resultText(t, res))
	}
}

func TestArtworkGenerate_NoSource(t *testing.T) {
	_, h := testSetup(t)

	res, err := h.HandleArtworkGenerate(context.Background(), makeRequest(map[string]any{
		"prompt": "p",
	}))
	if err != nil {
		t.Fatalf("handler returned transport error: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected error result")
	}
}

func TestComplianceScan(t *testing.T) {
	_, h := testSetup(t)
	ctx := context.Background()

	if _, err := h.HandleArtworkGenerate(ctx, makeRequest(map[string]any{
		"prompt": "p",
		"source": "data:image/png;base64,AAA=",
	})); err != nil {
		t.Fatalf("generate: %v", err)
	}

	res, err := h.HandleComplianceScan(ctx, makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleComplianceScan failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", resultText(t, res))
	}
	var out struct {
		Report struct {
			Score int `json:"score"`
		} `json:"report"`
	}
	json.Unmarshal([]byte(resultText(t, res)), &out)
	if out.Report.Score != 75 {
		t.Errorf("score = %d", out.Report.Score)
	}
}

func TestInventorySearch(t *testing.T) {
	_, h := testSetup(t)

	res, err := h.HandleInventorySearch(context.Background(), makeRequest(map[string]any{
		"query": "chips",
	}))
	if err != nil {
		t.Fatalf("HandleInventorySearch failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), "snk-chips-bbq") {
		t.Errorf("result = %s", resultText(t, res))
	}
}

func TestTemplateList(t *testing.T) {
	_, h := testSetup(t)

	res, err := h.HandleTemplateList(context.Background(), makeRequest(nil))
	if err != nil {
		t.Fatalf("HandleTemplateList failed: %v", err)
	}
	if !strings.Contains(resultText(t, res), "pouch-standup-12oz") {
		t.Errorf("result = %s", resultText(t, res))
	}
}

func TestToolRegistry(t *testing.T) {
	names := AllToolNames()
	if len(names) != 8 {
		t.Errorf("tool count = %d, want 8", len(names))
	}

	if unknown := ValidateDisabledTools([]string{"asset_save", "nope"}); len(unknown) != 1 || unknown[0] != "nope" {
		t.Errorf("unknown tools = %v", unknown)
	}
	if unknown := ValidateDisabledTypes([]string{"asset", "capsule"}); len(unknown) != 1 || unknown[0] != "capsule" {
		t.Errorf("unknown types = %v", unknown)
	}

	tools := ExpandTypesToTools([]string{"asset"})
	if len(tools) != 4 {
		t.Errorf("asset tools = %v, want 4", tools)
	}
	if got := GetTypeForTool("artwork_generate"); got != "artwork" {
		t.Errorf("GetTypeForTool = %q", got)
	}
}

func TestNewServer_DisablesTools(t *testing.T) {
	database, h := testSetup(t)

	cfg := config.DefaultConfig()
	cfg.DisabledTypes = []string{"asset"}
	cfg.DisabledTools = []string{"template_list"}

	s := NewServer(database, h.session, h.skus, h.bundleDir, cfg, "test")
	if s == nil {
		t.Fatal("NewServer returned nil")
	}
}
