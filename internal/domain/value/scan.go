package value

import (
	"errors"
	"strings"
)

var (
	ErrEmptyScanID   = errors.New("scan id is empty")
	ErrEmptyUserName = errors.New("user name is empty")
	ErrEmptyCarBrand = errors.New("car brand is empty")
)

// ScanID is assigned by the store and never changes afterwards.
type ScanID string

func ParseScanID(s string) (ScanID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyScanID
	}

	return ScanID(s), nil
}

func (id ScanID) String() string {
	return string(id)
}

func (id ScanID) IsZero() bool {
	return id == ""
}

// UserName is always kept in canonical form, see Canonical.
type UserName string

func ParseUserName(s string) (UserName, error) {
	c := Canonical(s)
	if c == "" {
		return "", ErrEmptyUserName
	}

	return UserName(c), nil
}

func (u UserName) String() string {
	return string(u)
}

// CarBrand is always kept in canonical form, see Canonical.
type CarBrand string

func ParseCarBrand(s string) (CarBrand, error) {
	c := Canonical(s)
	if c == "" {
		return "", ErrEmptyCarBrand
	}

	return CarBrand(c), nil
}

func (c CarBrand) String() string {
	return string(c)
}

// Canonical is the single normalization applied to user names and car brands
// on write and on lookup: surrounding whitespace trimmed, lower case.
func Canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
