package creations

import "errors"

// ErrNotFound indicates the creation does not exist.
var ErrNotFound = errors.New("creation not found")
