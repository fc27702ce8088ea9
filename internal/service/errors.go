package service

import (
	"errors"
)

// Error taxonomy surfaced to the transport layer. Anything else coming out
// of a service is a persistence failure wrapped with %w; callers log those
// and do not retry.
var (
	// ErrValidation covers bad input: insufficient funds, caps exceeded,
	// an improvement already applied. Surfaced verbatim, never retried.
	ErrValidation = errors.New("validation failed")

	// ErrIneligible covers refused loans (credit score, loan cap).
	ErrIneligible = errors.New("not eligible")

	// ErrNotFound covers unknown or foreign entity ids.
	ErrNotFound = errors.New("not found")

	// ErrStateConflict covers claim-once transitions that did not fire:
	// collecting a collected job, claiming a non-matured investment. It is
	// deliberately indistinguishable from "not ready yet".
	ErrStateConflict = errors.New("not ready")
)
