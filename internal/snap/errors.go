package snap

import "errors"

// ErrNotFound reports that no backup record exists for a requested id.
// Callers treat it as a failure of the one operation, not of the process.
var ErrNotFound = errors.New("backup not found")
