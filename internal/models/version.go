package models

import (
	"fmt"
	"strconv"

	domainErrors "github.com/Tomas-vilte/cicd-utils/internal/errors"
	"github.com/Tomas-vilte/cicd-utils/internal/regex"
	"golang.org/x/mod/semver"
)

// SemanticVersion is a vMAJOR.MINOR.PATCH version.
type SemanticVersion struct {
	Major int
	Minor int
	Patch int
}

// BumpType selects which component of a SemanticVersion is incremented.
type BumpType string

const (
	BumpMajor BumpType = "major"
	BumpMinor BumpType = "minor"
	BumpPatch BumpType = "patch"
)

// ParseSemanticVersion parses a string of the exact form v<int>.<int>.<int>.
func ParseSemanticVersion(version string) (SemanticVersion, error) {
	match := regex.SemanticVersion.FindStringSubmatch(version)
	if match == nil {
		return SemanticVersion{}, domainErrors.ErrInvalidVersion.WithContext("version", version)
	}

	parts := make([]int, 3)
	for i, raw := range match[1:] {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return SemanticVersion{}, domainErrors.ErrInvalidVersion.
				WithError(err).
				WithContext("version", version)
		}
		parts[i] = n
	}

	return SemanticVersion{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

func (v SemanticVersion) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Bump returns the next version for the given bump type. Lower components
// are reset to zero.
func (v SemanticVersion) Bump(bump BumpType) (SemanticVersion, error) {
	switch bump {
	case BumpMajor:
		return SemanticVersion{Major: v.Major + 1}, nil
	case BumpMinor:
		return SemanticVersion{Major: v.Major, Minor: v.Minor + 1}, nil
	case BumpPatch:
		return SemanticVersion{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}, nil
	default:
		return v, domainErrors.ErrInvalidBump.WithContext("bump", string(bump))
	}
}

// Compare returns -1, 0 or +1 depending on whether v sorts before, equal to
// or after other.
func (v SemanticVersion) Compare(other SemanticVersion) int {
	return semver.Compare(v.String(), other.String())
}

// ParseBumpType validates a bump name.
func ParseBumpType(s string) (BumpType, error) {
	switch b := BumpType(s); b {
	case BumpMajor, BumpMinor, BumpPatch:
		return b, nil
	default:
		return "", domainErrors.ErrInvalidBump.WithContext("bump", s)
	}
}
