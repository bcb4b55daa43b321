package sentinel

import "errors"

// Sentinel store errors. The store returns these (optionally wrapped)
// so services can translate them into domain errors exactly once.
var (
	ErrNotFound    = errors.New("not found")
	ErrAlreadyUsed = errors.New("already used")
)
