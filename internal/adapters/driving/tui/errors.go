package tui

import "errors"

// ErrMissingChapterService is returned when the chapter service is not provided.
var ErrMissingChapterService = errors.New("tui: chapter service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
