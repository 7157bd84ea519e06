package metadata

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusIn  Status = "In"
	StatusOut Status = "Out"
)

// DefaultLocation is where an asset lives while it is checked in.
const DefaultLocation = "Warehouse"

func NewStatus(value string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, status := range []Status{StatusIn, StatusOut} {
		if strings.ToLower(string(status)) == normalized {
			return status, nil
		}
	}

	return "", fmt.Errorf("invalid status: %q, only valid values are: %s, %s", value, StatusIn, StatusOut)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusIn, StatusOut:
		return true
	default:
		return false
	}
}

// IsAvailable reports whether the asset sits in the warehouse and can be checked out.
func (s Status) IsAvailable() bool {
	return s == StatusIn
}

func (s Status) String() string {
	return string(s)
}
