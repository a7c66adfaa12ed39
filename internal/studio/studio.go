// Package studio holds the working state of one artwork session and
// orchestrates generation, vectorization, scanning, and library saves.
package studio

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"nanopack/internal/asset"
	"nanopack/internal/compliance"
	"nanopack/internal/errors"
	"nanopack/internal/inventory"
	"nanopack/internal/ops"
	"nanopack/internal/selection"
	"nanopack/internal/template"
	"nanopack/internal/vectorize"
)

// ImageEditor applies a text instruction to a data-URI image.
// Satisfied by genai.Client.
type ImageEditor interface {
	EditImage(ctx context.Context, dataURI, prompt string) (string, error)
}

// ComplianceScanner runs a regulatory scan. Satisfied by
// compliance.Scanner.
type ComplianceScanner interface {
	Scan(ctx context.Context, dataURI, industry string) (*compliance.Report, error)
}

// InventoryClient resolves SKUs and pushes artwork filenames to the
// ERP. Satisfied by inventory.Client.
type InventoryClient interface {
	Get(ctx context.Context, id string) (*inventory.SKU, error)
	SyncArtwork(ctx context.Context, skuID, fileName string) error
}

// Session is the working state of one project. All methods are safe for
// concurrent use; long-running actions are serialized through the
// status machine.
type Session struct {
	mu        sync.Mutex
	db        *sql.DB
	editor    ImageEditor
	scanner   ComplianceScanner
	tracer    vectorize.Tracer
	inventory InventoryClient
	log       *zap.Logger

	status      Status
	lastError   string
	projectName string
	variant     int
	tmpl        *template.Template
	source      string // original artwork, data URI
	result      string // latest generated artwork, data URI
	resultSVG   string // latest vectorization
	sku         *inventory.SKU
	report      *compliance.Report

	// Selection drives bulk delete and bundle export over the library.
	Selection *selection.Set
}

// NewSession creates an idle session.
func NewSession(database *sql.DB, editor ImageEditor, scanner ComplianceScanner, tracer vectorize.Tracer, inv InventoryClient, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		db:          database,
		editor:      editor,
		scanner:     scanner,
		tracer:      tracer,
		inventory:   inv,
		log:         log,
		status:      StatusIdle,
		projectName: "Untitled Project",
		variant:     1,
		Selection:   selection.New(),
	}
}

// State is a read-only snapshot of the session.
type State struct {
	Status      Status              `json:"status"`
	LastError   string              `json:"last_error,omitempty"`
	ProjectName string              `json:"project_name"`
	Variant     int                 `json:"variant"`
	TemplateID  string              `json:"template_id,omitempty"`
	HasSource   bool                `json:"has_source"`
	HasResult   bool                `json:"has_result"`
	HasVector   bool                `json:"has_vector"`
	SKU         *inventory.SKU      `json:"sku,omitempty"`
	Report      *compliance.Report  `json:"report,omitempty"`
	Selected    []string            `json:"selected"`
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Status:      s.status,
		LastError:   s.lastError,
		ProjectName: s.projectName,
		Variant:     s.variant,
		HasSource:   s.source != "",
		HasResult:   s.result != "",
		HasVector:   s.resultSVG != "",
		SKU:         s.sku,
		Report:      s.report,
		Selected:    s.Selection.IDs(),
	}
	if s.tmpl != nil {
		st.TemplateID = s.tmpl.ID
	}
	return st
}

// SetProject renames the project.
func (s *Session) SetProject(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewInvalidRequest("project name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectName = name
	return nil
}

// SetTemplate selects the packaging template applied to future
// generations. An empty id clears the template.
func (s *Session) SetTemplate(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		s.tmpl = nil
		return nil
	}
	t, ok := template.ByID(id)
	if !ok {
		return errors.NewInvalidRequest(fmt.Sprintf("unknown template: %s", id))
	}
	s.tmpl = &t
	return nil
}

// LoadSource sets the original artwork for the session.
func (s *Session) LoadSource(dataURI string) error {
	if _, _, err := asset.SplitDataURI(dataURI); err != nil {
		return errors.NewInvalidRequest(fmt.Sprintf("bad source image: %v", err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = dataURI
	s.result = ""
	s.resultSVG = ""
	s.report = nil
	return nil
}

// begin moves the session into processing, rejecting concurrent work.
func (s *Session) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !canTransition(s.status, StatusProcessing) {
		return errors.NewInvalidRequest("another action is already in progress")
	}
	s.status = StatusProcessing
	s.lastError = ""
	return nil
}

// finish records the outcome of a processing action.
func (s *Session) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.status = StatusError
		s.lastError = err.Error()
		return
	}
	s.status = StatusSuccess
}

// workingImage returns the latest artwork, preferring the generated
// result over the source.
func (s *Session) workingImage() string {
	if s.result != "" {
		return s.result
	}
	return s.source
}

// Generate runs an AI edit on the current artwork. The selected
// template's packaging context is appended to the prompt. On success
// the result replaces the working image and the variant counter
// advances.
func (s *Session) Generate(ctx context.Context, prompt string) (string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.NewInvalidRequest("prompt is required")
	}

	s.mu.Lock()
	image := s.workingImage()
	tmpl := s.tmpl
	s.mu.Unlock()
	if image == "" {
		return "", errors.NewInvalidRequest("no source image loaded")
	}

	if err := s.begin(); err != nil {
		return "", err
	}

	result, err := s.editor.EditImage(ctx, image, template.InjectContext(prompt, tmpl))
	s.finish(err)
	if err != nil {
		s.log.Warn("generation failed", zap.Error(err))
		return "", err
	}

	s.mu.Lock()
	s.result = result
	s.resultSVG = ""
	s.variant++
	variant := s.variant
	s.mu.Unlock()

	s.log.Info("artwork generated", zap.Int("next_variant", variant))
	return result, nil
}

// Vectorize traces the working raster into SVG.
func (s *Session) Vectorize(ctx context.Context, opts vectorize.Options) (string, error) {
	s.mu.Lock()
	image := s.workingImage()
	s.mu.Unlock()
	if image == "" {
		return "", errors.NewInvalidRequest("no image to vectorize")
	}

	_, raster, err := asset.DecodeDataURI(image)
	if err != nil {
		return "", errors.NewInvalidRequest(fmt.Sprintf("working image is not a raster data URI: %v", err))
	}

	if err := s.begin(); err != nil {
		return "", err
	}

	// The trace runs in the background; cancelling ctx abandons the
	// wait but not the underlying work.
	job := vectorize.Start(s.tracer, raster, opts)
	svg, err := job.Wait(ctx)
	s.finish(err)
	if err != nil {
		s.log.Warn("vectorization failed", zap.Error(err))
		return "", err
	}

	s.mu.Lock()
	s.resultSVG = svg
	s.mu.Unlock()
	return svg, nil
}

// ScanCompliance analyzes the working image against the regulator for
// the linked SKU's category. Without a linked SKU the category defaults
// to General.
func (s *Session) ScanCompliance(ctx context.Context) (*compliance.Report, error) {
	s.mu.Lock()
	image := s.workingImage()
	industry := "General"
	if s.sku != nil {
		industry = s.sku.Category
	}
	s.mu.Unlock()
	if image == "" {
		return nil, errors.NewInvalidRequest("no image to scan")
	}

	if err := s.begin(); err != nil {
		return nil, err
	}

	report, err := s.scanner.Scan(ctx, image, industry)
	s.finish(err)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.report = report
	s.mu.Unlock()
	return report, nil
}

// SaveToLibrary persists the current artwork of the given kind and, if
// a SKU is linked, pushes the filename to the ERP. A failed sync never
// undoes the save; its message is surfaced alongside the asset.
func (s *Session) SaveToLibrary(ctx context.Context, kind asset.Kind) (*asset.Asset, string, error) {
	s.mu.Lock()
	var payload string
	switch kind {
	case asset.KindVector:
		payload = s.resultSVG
	default:
		payload = s.workingImage()
	}
	input := ops.SaveInput{
		ProjectName: s.projectName,
		Variant:     s.variant,
		Kind:        kind,
		Payload:     payload,
	}
	sku := s.sku
	s.mu.Unlock()

	if payload == "" {
		return nil, "", errors.NewInvalidRequest("nothing to save for kind " + string(kind))
	}

	out, err := ops.Save(s.db, input)
	if err != nil {
		return nil, "", err
	}
	saved := out.Asset
	message := fmt.Sprintf("Saved %s to library", saved.FileName)

	if sku != nil {
		if err := s.inventory.SyncArtwork(ctx, sku.ID, saved.FileName); err != nil {
			s.log.Warn("artwork sync failed after save",
				zap.String("sku_id", sku.ID),
				zap.Error(err))
			message = fmt.Sprintf("Saved %s to library, but inventory sync failed: %v", saved.FileName, err)
		}
	}

	return &saved, message, nil
}

// Load pulls a library asset back into the session as the working
// artwork.
func (s *Session) Load(ctx context.Context, id string) error {
	out, err := ops.Fetch(s.db, ops.FetchInput{ID: id})
	if err != nil {
		return err
	}
	a := out.Asset

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projectName = a.ProjectName
	s.variant = a.Variant
	s.report = nil
	switch a.Kind {
	case asset.KindVector:
		s.resultSVG = a.Payload
	default:
		s.result = a.Payload
	}
	return nil
}

// LinkSKU attaches an inventory SKU to the session and adopts its name
// as the project name.
func (s *Session) LinkSKU(ctx context.Context, id string) (*inventory.SKU, error) {
	sku, err := s.inventory.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sku = sku
	s.projectName = sku.Name
	return sku, nil
}

// TechSheet renders the markdown tech sheet for the session's current
// SKU and compliance report.
func (s *Session) TechSheet() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return compliance.TechSheet(s.projectName, s.sku, s.report)
}
