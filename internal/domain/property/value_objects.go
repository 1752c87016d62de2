package property

import (
	"errors"
	"strings"
)

const (
	MaxNameLength        = 255
	MaxLocationLength    = 255
	MaxDescriptionLength = 4000
)

var (
	ErrEmptyName          = errors.New("property name cannot be empty")
	ErrNameTooLong        = errors.New("property name exceeds maximum length")
	ErrEmptyLocation      = errors.New("property location cannot be empty")
	ErrLocationTooLong    = errors.New("property location exceeds maximum length")
	ErrDescriptionTooLong = errors.New("property description exceeds maximum length")
	ErrInvalidNightlyRate = errors.New("nightly rate must be positive")
)

type Name struct {
	value string
}

func NewName(s string) (Name, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Name{}, ErrEmptyName
	}
	if len(t) > MaxNameLength {
		return Name{}, ErrNameTooLong
	}
	return Name{value: t}, nil
}

func (n Name) String() string { return n.value }

type Location struct {
	value string
}

func NewLocation(s string) (Location, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return Location{}, ErrEmptyLocation
	}
	if len(t) > MaxLocationLength {
		return Location{}, ErrLocationTooLong
	}
	return Location{value: t}, nil
}

func (l Location) String() string { return l.value }

type Description struct {
	value string
}

func NewDescription(s string) (Description, error) {
	t := strings.TrimSpace(s)
	if len(t) > MaxDescriptionLength {
		return Description{}, ErrDescriptionTooLong
	}
	return Description{value: t}, nil
}

func (d Description) String() string { return d.value }

// NightlyRate is the per-night price in cents.
type NightlyRate struct {
	cents int64
}

func NewNightlyRate(cents int64) (NightlyRate, error) {
	if cents <= 0 {
		return NightlyRate{}, ErrInvalidNightlyRate
	}
	return NightlyRate{cents: cents}, nil
}

func (r NightlyRate) Cents() int64 { return r.cents }
