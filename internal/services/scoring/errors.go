package scoring

import "FxScore/internal/domain/models"

var (
	// ErrInvalidInput marks inputs the model cannot score.
	ErrInvalidInput = models.ErrInvalidInput
	// ErrEmptyWindow is returned when a percentile is requested against an empty series.
	ErrEmptyWindow = models.ErrEmptyWindow
)
