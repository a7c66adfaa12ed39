package ops

import (
	"database/sql"
	"strings"
	"time"

	"nanopack/internal/asset"
	"nanopack/internal/db"
	"nanopack/internal/errors"
)

// SaveInput contains parameters for the Save operation.
type SaveInput struct {
	ProjectID   string // grouping key, defaults to ProjectName
	ProjectName string // required
	Variant     int    // positive; caller-controlled, not checked for uniqueness
	Kind        asset.Kind
	Payload     string // data URI (raster) or SVG markup (vector); writer's contract
	Width       *int
	Height      *int
}

// SaveOutput contains the result of the Save operation.
type SaveOutput struct {
	Asset asset.Asset `json:"asset"`
}

// Save creates a new library asset: assigns an id, derives the filename
// once via the naming policy, and writes the record.
func Save(database *sql.DB, input SaveInput) (*SaveOutput, error) {
	input.ProjectName = strings.TrimSpace(input.ProjectName)
	if input.ProjectName == "" {
		return nil, errors.NewInvalidRequest("project_name is required")
	}
	if input.Variant <= 0 {
		return nil, errors.NewInvalidRequest("variant must be a positive integer")
	}
	if !input.Kind.Valid() {
		return nil, errors.NewInvalidRequest("kind must be one of: raster, vector")
	}
	if input.Payload == "" {
		return nil, errors.NewInvalidRequest("payload is required")
	}
	if input.ProjectID == "" {
		input.ProjectID = input.ProjectName
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	a := asset.Asset{
		ID:          id,
		ProjectID:   input.ProjectID,
		ProjectName: input.ProjectName,
		Variant:     input.Variant,
		FileName:    asset.Filename(input.ProjectName, input.Variant, input.Kind, input.Width, input.Height),
		Kind:        input.Kind,
		Payload:     input.Payload,
		Width:       input.Width,
		Height:      input.Height,
		CreatedAt:   time.Now().UnixMilli(),
	}

	if err := db.Put(database, &a); err != nil {
		return nil, err
	}

	return &SaveOutput{Asset: a}, nil
}
