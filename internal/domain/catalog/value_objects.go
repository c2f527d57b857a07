package catalog

import (
	"strings"

	"pos-catalog/internal/pkg/errs"
)

const MaxNameLength = 128

var (
	ErrEmptyName   = errs.New("name must not be empty")
	ErrNameTooLong = errs.New("name exceeds maximum length")
)

type Name struct {
	value string
}

func NewName(value string) (Name, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return Name{}, ErrEmptyName
	}
	if len(trimmed) > MaxNameLength {
		return Name{}, ErrNameTooLong
	}
	return Name{value: trimmed}, nil
}

// ReconstructName rebuilds a Name from a trusted store row without
// re-validating.
func ReconstructName(value string) Name {
	return Name{value: value}
}

func (n Name) String() string {
	return n.value
}
