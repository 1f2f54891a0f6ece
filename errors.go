package outreach

import (
	"errors"

	"github.com/openadvocacy/outreach/internal/storage"
)

// Domain errors surface from the storage layer; callers match them with
// errors.Is / errors.As and map them to transport-level responses.
var ErrNoFields = storage.ErrNoFields

// ErrAnalysisDisabled is returned by AnalyzeContact when the AI feature
// flag is off.
var ErrAnalysisDisabled = errors.New("ai analysis is disabled")

type (
	NotFoundError   = storage.NotFoundError
	ConflictError   = storage.ConflictError
	ValidationError = storage.ValidationError
)
