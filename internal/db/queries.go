package db

import (
	"context"
	"database/sql"

	"nanopack/internal/asset"
	"nanopack/internal/errors"
)

// Put inserts or fully overwrites the asset at asset.ID. The single
// INSERT OR REPLACE statement is atomic with respect to concurrent
// reads: a reader never observes a partially written asset.
func Put(database *sql.DB, a *asset.Asset) error {
	query := `
		INSERT OR REPLACE INTO assets (
			id, project_id, project_name, variant, file_name,
			kind, payload, width, height, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := database.Exec(query,
		a.ID, a.ProjectID, a.ProjectName, a.Variant, a.FileName,
		string(a.Kind), a.Payload, toNullInt(a.Width), toNullInt(a.Height), a.CreatedAt,
	)
	if err != nil {
		return errors.NewWriteFailed(err)
	}

	return nil
}

// GetByID retrieves an asset by id.
func GetByID(database *sql.DB, id string) (*asset.Asset, error) {
	query := `
		SELECT id, project_id, project_name, variant, file_name,
			kind, payload, width, height, created_at
		FROM assets
		WHERE id = ?
	`

	row := database.QueryRow(query, id)
	a, err := scanAsset(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	return a, nil
}

// ListAll returns every stored asset ordered by created_at descending,
// ties broken by id for a stable order within one listing. The single
// query produces a snapshot; writes during iteration are not reflected.
func ListAll(database *sql.DB) ([]asset.Asset, error) {
	return listWhere(database, "", nil)
}

// ListByProject returns a project's assets, newest first.
func ListByProject(database *sql.DB, projectID string) ([]asset.Asset, error) {
	return listWhere(database, "WHERE project_id = ?", []any{projectID})
}

func listWhere(database *sql.DB, where string, args []any) ([]asset.Asset, error) {
	query := `
		SELECT id, project_id, project_name, variant, file_name,
			kind, payload, width, height, created_at
		FROM assets
		` + where + `
		ORDER BY created_at DESC, id DESC
	`

	rows, err := database.Query(query, args...)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var assets []asset.Asset
	for rows.Next() {
		a, err := scanAssetFromRows(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		assets = append(assets, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return assets, nil
}

// DeleteStatus tags the outcome of one id in a batch delete.
type DeleteStatus string

const (
	DeleteStatusDeleted DeleteStatus = "deleted"
	DeleteStatusFailed  DeleteStatus = "failed"
)

// DeleteResult is the tagged per-id outcome of DeleteMany.
type DeleteResult struct {
	ID     string       `json:"id"`
	Status DeleteStatus `json:"status"`
	Reason string       `json:"reason,omitempty"`
}

// BatchResult aggregates per-id outcomes of DeleteMany.
type BatchResult struct {
	Results []DeleteResult `json:"results"`
	Deleted int            `json:"deleted"`
	Failed  int            `json:"failed"`
}

// execDelete performs one deletion; a test hook so partial failures can
// be exercised.
var execDelete = func(ctx context.Context, database *sql.DB, id string) error {
	_, err := database.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	return err
}

// DeleteMany deletes each id best-effort. Deleting a nonexistent id is
// not an error. There is no rollback: ids deleted before a failure stay
// deleted. Failure accounting tolerates any completion order.
func DeleteMany(ctx context.Context, database *sql.DB, ids []string) (*BatchResult, error) {
	result := &BatchResult{Results: make([]DeleteResult, 0, len(ids))}

	for _, id := range ids {
		if err := execDelete(ctx, database, id); err != nil {
			result.Results = append(result.Results, DeleteResult{
				ID:     id,
				Status: DeleteStatusFailed,
				Reason: err.Error(),
			})
			result.Failed++
			continue
		}
		result.Results = append(result.Results, DeleteResult{
			ID:     id,
			Status: DeleteStatusDeleted,
		})
		result.Deleted++
	}

	if result.Failed > 0 {
		failed := make(map[string]string, result.Failed)
		for _, r := range result.Results {
			if r.Status == DeleteStatusFailed {
				failed[r.ID] = r.Reason
			}
		}
		return result, errors.NewBatchDeleteFailed(failed)
	}

	return result, nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAsset(row *sql.Row) (*asset.Asset, error) {
	return scanFrom(row)
}

func scanAssetFromRows(rows *sql.Rows) (*asset.Asset, error) {
	return scanFrom(rows)
}

func scanFrom(s scanner) (*asset.Asset, error) {
	var (
		a      asset.Asset
		kind   string
		width  sql.NullInt64
		height sql.NullInt64
	)

	err := s.Scan(
		&a.ID, &a.ProjectID, &a.ProjectName, &a.Variant, &a.FileName,
		&kind, &a.Payload, &width, &height, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Kind = asset.Kind(kind)
	a.Width = fromNullInt(width)
	a.Height = fromNullInt(height)

	return &a, nil
}

// toNullInt converts a *int to sql.NullInt64.
func toNullInt(n *int) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*n), Valid: true}
}

// fromNullInt converts a sql.NullInt64 to *int.
func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
