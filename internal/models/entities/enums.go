package entities

import (
	"database/sql/driver"
	"fmt"
)

// MediaType is the kind of submission a campaign requirement asks for.
type MediaType string

const (
	MediaTypePhoto MediaType = "photo"
	MediaTypeVideo MediaType = "video"
)

func (m MediaType) String() string { return string(m) }

// Valid reports whether m is one of the known media types.
func (m MediaType) Valid() bool {
	return m == MediaTypePhoto || m == MediaTypeVideo
}

// Scan implements the sql.Scanner interface
func (m *MediaType) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*m = ""
	case string:
		*m = MediaType(v)
	case []byte:
		*m = MediaType(v)
	default:
		return fmt.Errorf("MediaType: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (m MediaType) Value() (driver.Value, error) { return string(m), nil }

// ApplicationStatus is the review state of a campaign application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccept   ApplicationStatus = "accept"
	StatusDeclined ApplicationStatus = "declined"
)

func (s ApplicationStatus) String() string { return string(s) }

func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusAccept, StatusDeclined:
		return true
	}
	return false
}

// Scan implements the sql.Scanner interface
func (s *ApplicationStatus) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = ""
	case string:
		*s = ApplicationStatus(v)
	case []byte:
		*s = ApplicationStatus(v)
	default:
		return fmt.Errorf("ApplicationStatus: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (s ApplicationStatus) Value() (driver.Value, error) { return string(s), nil }
