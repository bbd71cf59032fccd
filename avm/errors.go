package avm

import (
	"errors"
	"fmt"

	"github.com/chazu/avmns/abc"
	"github.com/chazu/avmns/versionmark"
)

// ---------------------------------------------------------------------------
// Resolution Error Types
// ---------------------------------------------------------------------------

var (
	// Malformed bytecode.
	ErrUnknownNamespace = errors.New("unknown namespace constant")
	ErrUnknownString    = errors.New("unknown string constant")

	// Internal invariant violations. Only the platform's own compiler emits
	// version marks, and only into playerglobals.
	ErrVersionMarkOutsideBuiltins = errors.New("versioned namespace name in non-playerglobals domain")
	ErrUnsupportedVersionMark     = versionmark.ErrUnsupportedVersion
)

// ResolveError reports a namespace constant that could not be resolved.
type ResolveError struct {
	Index abc.Index
	Err   error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("namespace constant %d: %v", e.Index, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// IsInvariantViolation reports whether err stems from a version mark that
// trusted built-ins can never produce, as opposed to ordinary malformed
// bytecode.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrVersionMarkOutsideBuiltins) || errors.Is(err, ErrUnsupportedVersionMark)
}

// malformed wraps a pool lookup failure under one of this package's
// sentinels, keeping the abc sentinel reachable through errors.Is.
func malformed(sentinel, cause error) error {
	return fmt.Errorf("%w: %w", sentinel, cause)
}
