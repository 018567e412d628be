package model

import (
	"database/sql/driver"
	"fmt"
	"slices"
	"strings"
)

// IDList is a set of user IDs stored as a single comma-joined column.
// IDs come from a letter-only alphabet so the separator is safe, but
// Value still refuses anything containing a comma

type IDList []string

// Value implements the driver.Valuer interface.
// This defines how the slice is stored in the database.
func (l IDList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "", nil
	}

	for _, v := range l {
		if strings.Contains(v, ",") {
			return "", fmt.Errorf("unsafe string, %s", v)
		}
	}

	return strings.Join(l, ","), nil
}

// Scan implements the sql.Scanner interface.
// This defines how the database value is converted back into go.
func (l *IDList) Scan(value interface{}) error {
	if value == nil {
		*l = IDList{}
		return nil
	}

	str, ok := value.(string)
	if !ok {
		b, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan IDList, %v", value)
		}

		str = string(b)
	}

	if str == "" {
		*l = IDList{}
	} else {
		*l = strings.Split(str, ",")
	}

	return nil
}

func (l IDList) Contains(id string) bool {
	return slices.Contains(l, id)
}

// Add appends id if it isn't already present and reports whether
// the list changed
func (l *IDList) Add(id string) bool {
	if l.Contains(id) {
		return false
	}

	*l = append(*l, id)
	return true
}

// Remove drops id from the list and reports whether the list changed
func (l *IDList) Remove(id string) bool {
	i := slices.Index(*l, id)
	if i < 0 {
		return false
	}

	*l = slices.Delete(*l, i, i+1)
	return true
}
