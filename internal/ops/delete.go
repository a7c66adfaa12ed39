package ops

import (
	"context"
	"database/sql"
	"fmt"

	"nanopack/internal/db"
	"nanopack/internal/errors"
)

// BatchDeleteInput contains parameters for the BatchDelete operation.
type BatchDeleteInput struct {
	IDs []string
}

// BatchDeleteOutput contains the per-id accounting of a batch delete.
// It is populated even when the operation as a whole fails, so callers
// can see which ids are already gone.
type BatchDeleteOutput struct {
	Results []db.DeleteResult `json:"results"`
	Deleted int               `json:"deleted"`
	Failed  int               `json:"failed"`
	Message string            `json:"message"`
}

// BatchDelete deletes each id best-effort. Missing ids are treated as
// deleted. On partial failure the returned error is BATCH_DELETE_FAILED
// and the output still carries the per-id results; ids deleted before a
// failure are not restored.
func BatchDelete(ctx context.Context, database *sql.DB, input BatchDeleteInput) (*BatchDeleteOutput, error) {
	ids := cleanIDs(input.IDs)
	if len(ids) == 0 {
		return nil, errors.NewInvalidRequest("at least one id is required")
	}

	result, err := db.DeleteMany(ctx, database, ids)
	if result == nil {
		return nil, err
	}

	output := &BatchDeleteOutput{
		Results: result.Results,
		Deleted: result.Deleted,
		Failed:  result.Failed,
		Message: formatBatchDeleteMessage(result),
	}
	return output, err
}

// formatBatchDeleteMessage creates a human-readable message for the batch result.
func formatBatchDeleteMessage(result *db.BatchResult) string {
	word := "asset"
	if result.Deleted != 1 {
		word = "assets"
	}
	if result.Failed > 0 {
		return fmt.Sprintf("Deleted %d %s, %d deletion(s) failed", result.Deleted, word, result.Failed)
	}
	return fmt.Sprintf("Deleted %d %s", result.Deleted, word)
}
