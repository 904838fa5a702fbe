package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// FieldPath is an ordered list of alias names for one logical field.
// Each alias may be dotted to reach into nested objects.
type FieldPath []string

// String returns aliases joined by "|"
func (p FieldPath) String() string {
	return strings.Join(p, "|")
}

// IsEmpty reports whether no alias is configured
func (p FieldPath) IsEmpty() bool {
	for _, alias := range p {
		if alias != "" {
			return false
		}
	}
	return true
}

// UnmarshalYAML accepts either a single name or a list of aliases
func (p *FieldPath) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*p = FieldPath{node.Value}
		return nil
	case yaml.SequenceNode:
		var aliases []string
		if err := node.Decode(&aliases); err != nil {
			return goerr.Wrap(err, "failed to decode field aliases")
		}
		*p = FieldPath(aliases)
		return nil
	default:
		return goerr.New("field must be a name or a list of names", goerr.V("line", node.Line))
	}
}

// ProjectionMode selects how records become series
type ProjectionMode string

const (
	// ProjectionLong joins (category, partition, value) rows
	ProjectionLong ProjectionMode = "long"
	// ProjectionWide reads one series per configured column
	ProjectionWide ProjectionMode = "wide"
	// ProjectionColumns turns the columns of one object into categories
	ProjectionColumns ProjectionMode = "columns"
)

// IsValid checks if the projection mode is supported
func (m ProjectionMode) IsValid() bool {
	switch m {
	case ProjectionLong, ProjectionWide, ProjectionColumns:
		return true
	default:
		return false
	}
}

// AxisOrder selects how categories are ordered
type AxisOrder string

const (
	AxisOrderFirstSeen AxisOrder = "first_seen"
	AxisOrderFixed     AxisOrder = "fixed"
	AxisOrderOrdinal   AxisOrder = "ordinal"
)

// IsValid checks if the order is supported. Empty means first_seen.
func (o AxisOrder) IsValid() bool {
	switch o {
	case "", AxisOrderFirstSeen, AxisOrderFixed, AxisOrderOrdinal:
		return true
	default:
		return false
	}
}

// SortOrder is an optional post-projection ordering by category total
type SortOrder string

const (
	SortNone      SortOrder = ""
	SortValueDesc SortOrder = "value_desc"
	SortValueAsc  SortOrder = "value_asc"
)

// IsValid checks if the sort order is supported
func (o SortOrder) IsValid() bool {
	switch o {
	case SortNone, SortValueDesc, SortValueAsc:
		return true
	default:
		return false
	}
}
