package ops

import (
	"database/sql"
	"strings"

	"nanopack/internal/asset"
	"nanopack/internal/db"
	"nanopack/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID string
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	Asset asset.Asset `json:"asset"`
}

// Fetch retrieves one asset by id, typically to load it back into the
// studio view.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	a, err := db.GetByID(database, id)
	if err != nil {
		return nil, err
	}

	return &FetchOutput{Asset: *a}, nil
}
