package view

import (
	"errors"
	"fmt"
	"strings"

	"go.einride.tech/aip/ordering"
)

var (
	ErrUnknownSortKey   = errors.New("unknown sort key")
	ErrMultipleSortKeys = errors.New("only one sort key is supported")
)

// ParseSort reads an AIP-132 order_by string such as "price desc". An
// empty string clears the ordering.
func ParseSort(orderBy string) (Sort, error) {
	if strings.TrimSpace(orderBy) == "" {
		return Sort{Direction: Asc}, nil
	}

	var ob ordering.OrderBy
	if err := ob.UnmarshalString(orderBy); err != nil {
		return Sort{}, fmt.Errorf("parse order_by: %w", err)
	}
	if len(ob.Fields) != 1 {
		return Sort{}, fmt.Errorf("%w: %q", ErrMultipleSortKeys, orderBy)
	}
	if err := ob.ValidateForPaths(SortKeys()...); err != nil {
		return Sort{}, fmt.Errorf("%w: %w", ErrUnknownSortKey, err)
	}

	field := ob.Fields[0]
	s := Sort{Key: field.Path, Direction: Asc}
	if field.Desc {
		s.Direction = Desc
	}
	return s, nil
}

// String formats s back into order_by syntax.
func (s Sort) String() string {
	if s.Key == "" {
		return ""
	}
	if s.Direction == Desc {
		return s.Key + " desc"
	}
	return s.Key
}
