package studio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"nanopack/internal/asset"
	"nanopack/internal/compliance"
	"nanopack/internal/db"
	"nanopack/internal/errors"
	"nanopack/internal/inventory"
	"nanopack/internal/vectorize"
)

const sourceImage = "data:image/png;base64,AAA="

type fakeEditor struct {
	result    string
	err       error
	gotPrompt string
}

func (f *fakeEditor) EditImage(ctx context.Context, dataURI, prompt string) (string, error) {
	f.gotPrompt = prompt
	return f.result, f.err
}

type fakeScanner struct {
	report      *compliance.Report
	err         error
	gotIndustry string
}

func (f *fakeScanner) Scan(ctx context.Context, dataURI, industry string) (*compliance.Report, error) {
	f.gotIndustry = industry
	return f.report, f.err
}

type fakeTracer struct {
	svg   string
	err   error
	block chan struct{}
}

func (f *fakeTracer) Trace(ctx context.Context, raster []byte, opts vectorize.Options) (string, error) {
	if f.block != nil {
		<-f.block
	}
	return f.svg, f.err
}

type fakeInventory struct {
	sku     *inventory.SKU
	syncErr error
	synced  []string
}

func (f *fakeInventory) Get(ctx context.Context, id string) (*inventory.SKU, error) {
	if f.sku == nil || f.sku.ID != id {
		return nil, errors.NewNotFound(id)
	}
	return f.sku, nil
}

func (f *fakeInventory) SyncArtwork(ctx context.Context, skuID, fileName string) error {
	f.synced = append(f.synced, fileName)
	return f.syncErr
}

type sessionDeps struct {
	editor    *fakeEditor
	scanner   *fakeScanner
	tracer    *fakeTracer
	inventory *fakeInventory
}

func newTestSession(t *testing.T) (*Session, *sessionDeps) {
	t.Helper()
	database, err := db.Init(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	deps := &sessionDeps{
		editor:    &fakeEditor{result: "data:image/png;base64,BBB="},
		scanner:   &fakeScanner{report: &compliance.Report{Score: 90, Status: compliance.StatusCompliant, Checks: []compliance.Check{}}},
		tracer:    &fakeTracer{svg: "<svg/>"},
		inventory: &fakeInventory{sku: &inventory.SKU{ID: "4", Name: "Night Repair Cream", Category: "Cosmetics"}},
	}
	s := NewSession(database, deps.editor, deps.scanner, deps.tracer, deps.inventory, nil)
	return s, deps
}

func TestGenerate(t *testing.T) {
	s, deps := newTestSession(t)
	require.NoError(t, s.LoadSource(sourceImage))

	result, err := s.Generate(context.Background(), "make it blue")
	require.NoError(t, err)
	require.Equal(t, "data:image/png;base64,BBB=", result)
	require.Equal(t, "make it blue", deps.editor.gotPrompt)

	st := s.Snapshot()
	require.Equal(t, StatusSuccess, st.Status)
	require.Equal(t, 2, st.Variant)
	require.True(t, st.HasResult)
}

func TestGenerate_InjectsTemplateContext(t *testing.T) {
	s, deps := newTestSession(t)
	require.NoError(t, s.LoadSource(sourceImage))
	require.NoError(t, s.SetTemplate("can-sleek-12oz"))

	_, err := s.Generate(context.Background(), "neon palette")
	require.NoError(t, err)
	require.Contains(t, deps.editor.gotPrompt, "neon palette")
	require.Contains(t, deps.editor.gotPrompt, "aluminum beverage can")
}

func TestGenerate_Failure(t *testing.T) {
	s, deps := newTestSession(t)
	deps.editor.err = errors.NewGenerationFailed("quota")
	require.NoError(t, s.LoadSource(sourceImage))

	_, err := s.Generate(context.Background(), "p")
	require.True(t, errors.Is(err, errors.ErrGenerationFailed))

	st := s.Snapshot()
	require.Equal(t, StatusError, st.Status)
	require.NotEmpty(t, st.LastError)
	require.Equal(t, 1, st.Variant, "variant must not advance on failure")

	// The session recovers: a later generation succeeds.
	deps.editor.err = nil
	_, err = s.Generate(context.Background(), "p")
	require.NoError(t, err)
	require.Equal(t, StatusSuccess, s.Snapshot().Status)
}

func TestGenerate_RequiresSource(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.Generate(context.Background(), "p")
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestGenerate_EmptyPrompt(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.LoadSource(sourceImage))
	_, err := s.Generate(context.Background(), "  ")
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestSetTemplate_Unknown(t *testing.T) {
	s, _ := newTestSession(t)
	err := s.SetTemplate("no-such-template")
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestVectorize(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.LoadSource(sourceImage))

	svg, err := s.Vectorize(context.Background(), vectorize.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, "<svg/>", svg)
	require.True(t, s.Snapshot().HasVector)
}

func TestVectorize_AbandonedWait(t *testing.T) {
	s, deps := newTestSession(t)
	require.NoError(t, s.LoadSource(sourceImage))
	deps.tracer.block = make(chan struct{})
	defer close(deps.tracer.block)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Vectorize(ctx, vectorize.DefaultOptions())
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, StatusError, s.Snapshot().Status)
	require.False(t, s.Snapshot().HasVector)
}

func TestScanCompliance_UsesSKUCategory(t *testing.T) {
	s, deps := newTestSession(t)
	require.NoError(t, s.LoadSource(sourceImage))

	_, err := s.LinkSKU(context.Background(), "4")
	require.NoError(t, err)

	report, err := s.ScanCompliance(context.Background())
	require.NoError(t, err)
	require.Equal(t, 90, report.Score)
	require.Equal(t, "Cosmetics", deps.scanner.gotIndustry)
}

func TestScanCompliance_DefaultIndustry(t *testing.T) {
	s, deps := newTestSession(t)
	require.NoError(t, s.LoadSource(sourceImage))

	_, err := s.ScanCompliance(context.Background())
	require.NoError(t, err)
	require.Equal(t, "General", deps.scanner.gotIndustry)
}

func TestLinkSKU_AdoptsName(t *testing.T) {
	s, _ := newTestSession(t)

	sku, err := s.LinkSKU(context.Background(), "4")
	require.NoError(t, err)
	require.Equal(t, "Night Repair Cream", sku.Name)
	require.Equal(t, "Night Repair Cream", s.Snapshot().ProjectName)
}

func TestSaveToLibrary(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.LoadSource(sourceImage))
	require.NoError(t, s.SetProject("Granola"))

	saved, message, err := s.SaveToLibrary(context.Background(), asset.KindRaster)
	require.NoError(t, err)
	require.Contains(t, message, "Saved")
	require.Equal(t, "Granola", saved.ProjectName)
	require.Equal(t, asset.KindRaster, saved.Kind)
}

func TestSaveToLibrary_SyncFailureKeepsSave(t *testing.T) {
	s, deps := newTestSession(t)
	deps.inventory.syncErr = errors.NewSyncFailed("erp down")
	require.NoError(t, s.LoadSource(sourceImage))

	_, err := s.LinkSKU(context.Background(), "4")
	require.NoError(t, err)

	saved, message, err := s.SaveToLibrary(context.Background(), asset.KindRaster)
	require.NoError(t, err, "a failed sync must not undo the save")
	require.NotNil(t, saved)
	require.Contains(t, message, "inventory sync failed")

	// The asset is on disk.
	require.NoError(t, s.Load(context.Background(), saved.ID))
}

func TestSaveToLibrary_SyncsFilename(t *testing.T) {
	s, deps := newTestSession(t)
	require.NoError(t, s.LoadSource(sourceImage))

	_, err := s.LinkSKU(context.Background(), "4")
	require.NoError(t, err)

	saved, _, err := s.SaveToLibrary(context.Background(), asset.KindRaster)
	require.NoError(t, err)
	require.Equal(t, []string{saved.FileName}, deps.inventory.synced)
}

func TestSaveToLibrary_NothingToSave(t *testing.T) {
	s, _ := newTestSession(t)
	_, _, err := s.SaveToLibrary(context.Background(), asset.KindVector)
	require.True(t, errors.Is(err, errors.ErrInvalidRequest))
}

func TestLoad_RestoresProject(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.LoadSource(sourceImage))
	require.NoError(t, s.SetProject("Granola"))

	saved, _, err := s.SaveToLibrary(context.Background(), asset.KindRaster)
	require.NoError(t, err)

	s2, _ := newTestSession(t)
	// Load from the original session's database.
	require.Error(t, s2.Load(context.Background(), saved.ID), "different database has no such asset")

	require.NoError(t, s.SetProject("Renamed"))
	require.NoError(t, s.Load(context.Background(), saved.ID))
	st := s.Snapshot()
	require.Equal(t, "Granola", st.ProjectName)
	require.Equal(t, saved.Variant, st.Variant)
	require.True(t, st.HasResult)
}

func TestTransitions(t *testing.T) {
	cases := []struct {
		from, to Status
		ok       bool
	}{
		{StatusIdle, StatusProcessing, true},
		{StatusProcessing, StatusSuccess, true},
		{StatusProcessing, StatusError, true},
		{StatusSuccess, StatusProcessing, true},
		{StatusError, StatusProcessing, true},
		{StatusIdle, StatusSuccess, false},
		{StatusProcessing, StatusProcessing, false},
		{StatusSuccess, StatusError, false},
	}
	for _, c := range cases {
		if got := canTransition(c.from, c.to); got != c.ok {
			t.Errorf("canTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.ok)
		}
	}
}

func TestTechSheet(t *testing.T) {
	s, _ := newTestSession(t)
	require.NoError(t, s.SetProject("Granola"))
	sheet := s.TechSheet()
	require.Contains(t, sheet, "Technical Data Sheet: Granola")
}
