package ops

import (
	"database/sql"

	"nanopack/internal/asset"
	"nanopack/internal/db"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	ProjectID string // optional filter
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items []asset.Asset `json:"items"`
	Total int           `json:"total"`
}

// List retrieves stored assets, newest first.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	var (
		items []asset.Asset
		err   error
	)
	if input.ProjectID != "" {
		items, err = db.ListByProject(database, input.ProjectID)
	} else {
		items, err = db.ListAll(database)
	}
	if err != nil {
		return nil, err
	}

	// Empty array rather than nil for JSON consumers
	if items == nil {
		items = []asset.Asset{}
	}

	return &ListOutput{Items: items, Total: len(items)}, nil
}
