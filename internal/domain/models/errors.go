package models

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyWindow  = fmt.Errorf("%w: empty trailing window", ErrInvalidInput)
)
