// Package versionmark decodes the API version marks that the platform's
// build tooling appends to built-in namespace names.
//
// A mark is a single trailing code point in the private use area
// [U+E000, U+F8FF]. Marks below WeirdStart are a catch-all emitted by some
// compilers and mean AllVersions; marks at or above it encode an index into
// the apiversion enumeration.
package versionmark

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/chazu/avmns/apiversion"
)

const (
	MinMark    = 0xE000
	MaxMark    = 0xF8FF
	WeirdStart = 0xE294
)

// ErrUnsupportedVersion is returned for a mark whose index lies beyond the
// highest defined API version.
var ErrUnsupportedVersion = errors.New("unsupported API version mark")

// Strip inspects the last code point of name. If it is a version mark, Strip
// returns the name without it, the decoded version and true. A name without
// a mark returns ok=false and a nil error.
func Strip(name string) (stripped string, version apiversion.Version, ok bool, err error) {
	// Marks are three bytes in UTF-8; an ASCII tail can never hold one.
	if len(name) == 0 || name[len(name)-1] < utf8.RuneSelf {
		return name, apiversion.AllVersions, false, nil
	}

	r, size := utf8.DecodeLastRuneInString(name)
	if r < MinMark || r > MaxMark {
		return name, apiversion.AllVersions, false, nil
	}

	stripped = name[:len(name)-size]
	if r < WeirdStart {
		return stripped, apiversion.AllVersions, true, nil
	}

	v, valid := apiversion.FromIndex(int(r - WeirdStart))
	if !valid {
		return name, apiversion.AllVersions, false, fmt.Errorf("%w: U+%04X in %q", ErrUnsupportedVersion, r, stripped)
	}
	return stripped, v, true, nil
}

// Has reports whether name ends in a code point from the mark range.
func Has(name string) bool {
	if len(name) == 0 || name[len(name)-1] < utf8.RuneSelf {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(name)
	return r >= MinMark && r <= MaxMark
}

// Mark returns the code point encoding v.
func Mark(v apiversion.Version) rune {
	return WeirdStart + rune(v)
}

// Encode appends the mark for v to name. Strip(Encode(name, v)) yields
// (name, v) for every defined version.
func Encode(name string, v apiversion.Version) string {
	return name + string(Mark(v))
}

// EncodeAllVersions appends the legacy catch-all mark.
func EncodeAllVersions(name string) string {
	return name + string(rune(MinMark))
}
