package reader

import "errors"

// ErrNoChapterService indicates that no chapter service was provided.
var ErrNoChapterService = errors.New("chapter service is required")
