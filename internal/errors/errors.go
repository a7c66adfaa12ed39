package errors

import "fmt"

// ErrorCode represents a NanoPack error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"      // 400
	ErrNotFound           ErrorCode = "NOT_FOUND"            // 404
	ErrArchiveBuildFailed ErrorCode = "ARCHIVE_BUILD_FAILED" // 422
	ErrWriteFailed        ErrorCode = "WRITE_FAILED"         // 500
	ErrBatchDeleteFailed  ErrorCode = "BATCH_DELETE_FAILED"  // 500
	ErrInternal           ErrorCode = "INTERNAL"             // 500
	ErrGenerationFailed   ErrorCode = "GENERATION_FAILED"    // 502
	ErrScanFailed         ErrorCode = "SCAN_FAILED"          // 502
	ErrSyncFailed         ErrorCode = "SYNC_FAILED"          // 502
	ErrExportFailed       ErrorCode = "EXPORT_FAILED"        // 502
	ErrStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"  // 503
)

// StudioError represents a structured error with code, status, and details.
type StudioError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *StudioError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *StudioError {
	return &StudioError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an asset cannot be found.
func NewNotFound(id string) *StudioError {
	return &StudioError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("asset not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewArchiveBuildFailed creates a 422 error for a bundle build failure.
// No partial archive is ever offered; the first bad payload fails the build.
func NewArchiveBuildFailed(fileName string, err error) *StudioError {
	msg := fmt.Sprintf("failed to build archive entry %q", fileName)
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msg, err)
	}
	return &StudioError{
		Code:    ErrArchiveBuildFailed,
		Status:  422,
		Message: msg,
		Details: map[string]any{"file_name": fileName},
	}
}

// NewWriteFailed creates a 500 error for a lower-level storage write error.
func NewWriteFailed(err error) *StudioError {
	msg := "write failed"
	if err != nil {
		msg = fmt.Sprintf("write failed: %v", err)
	}
	return &StudioError{
		Code:    ErrWriteFailed,
		Status:  500,
		Message: msg,
	}
}

// NewBatchDeleteFailed creates a 500 error reporting per-id delete failures.
// Already-deleted ids stay deleted; failed maps each failed id to its reason.
func NewBatchDeleteFailed(failed map[string]string) *StudioError {
	return &StudioError{
		Code:    ErrBatchDeleteFailed,
		Status:  500,
		Message: fmt.Sprintf("%d deletion(s) failed", len(failed)),
		Details: map[string]any{"failed": failed},
	}
}

// NewGenerationFailed creates a 502 error for an image-generation failure.
func NewGenerationFailed(msg string) *StudioError {
	return &StudioError{
		Code:    ErrGenerationFailed,
		Status:  502,
		Message: msg,
	}
}

// NewScanFailed creates a 502 error for a compliance-scan failure.
func NewScanFailed(msg string) *StudioError {
	return &StudioError{
		Code:    ErrScanFailed,
		Status:  502,
		Message: msg,
	}
}

// NewSyncFailed creates a 502 error for an inventory artwork-sync failure.
func NewSyncFailed(msg string) *StudioError {
	return &StudioError{
		Code:    ErrSyncFailed,
		Status:  502,
		Message: msg,
	}
}

// NewExportFailed creates a 502 error for a document/sheet/email export failure.
func NewExportFailed(msg string) *StudioError {
	return &StudioError{
		Code:    ErrExportFailed,
		Status:  502,
		Message: msg,
	}
}

// NewStorageUnavailable creates a 503 error for when the local database
// cannot be opened.
func NewStorageUnavailable(err error) *StudioError {
	msg := "local storage unavailable"
	if err != nil {
		msg = fmt.Sprintf("local storage unavailable: %v", err)
	}
	return &StudioError{
		Code:    ErrStorageUnavailable,
		Status:  503,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *StudioError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &StudioError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a StudioError with the given code.
func Is(err error, code ErrorCode) bool {
	if sErr, ok := err.(*StudioError); ok {
		return sErr.Code == code
	}
	return false
}
