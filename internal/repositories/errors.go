package repositories

import "errors"

// ErrNotFound is returned (wrapped) by every repository implementation when a
// record does not exist, so services can test with errors.Is regardless of the
// backing store.
var ErrNotFound = errors.New("record not found")
