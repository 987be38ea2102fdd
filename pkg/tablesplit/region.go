package tablesplit

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// RegionType is the semantic role of a region
type RegionType string

const (
	// RegionForm is a plain form: field labels next to their answers
	RegionForm RegionType = "Form"
	// RegionRepeatTable is a header row followed by rows of identical structure
	RegionRepeatTable RegionType = "RepeatTable"
	// RegionLeftRepeatTable has label columns on the left of a repeating block
	RegionLeftRepeatTable RegionType = "Left_RepeatTable"
	// RegionRightRepeatTable is handled exactly like RegionLeftRepeatTable
	RegionRightRepeatTable RegionType = "Right_RepeatTable"
)

// RegionTypes lists every region type in declaration order
var RegionTypes = []RegionType{
	RegionForm,
	RegionRepeatTable,
	RegionLeftRepeatTable,
	RegionRightRepeatTable,
}

// Valid reports whether t is one of the known region types
func (t RegionType) Valid() bool {
	for _, known := range RegionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HasLabelColumns reports whether regions of this type split off label columns
func (t RegionType) HasLabelColumns() bool {
	return t == RegionLeftRepeatTable || t == RegionRightRepeatTable
}

// RegionMeta is one classified region of a table.
// Rows are 1-based physical row numbers.
type RegionMeta struct {
	Name   string     `json:"name" yaml:"name"`
	Rows   []int      `json:"rows" yaml:"rows"`
	Type   RegionType `json:"type" yaml:"type"`
	Reason string     `json:"reason" yaml:"reason"`
	// SplitAfterColumn is the last label column, only meaningful for
	// Left_RepeatTable and Right_RepeatTable
	SplitAfterColumn *int `json:"split_after_column,omitempty" yaml:"split_after_column,omitempty"`
}

// SplitColumn returns split_after_column, defaulting to 0
func (m RegionMeta) SplitColumn() int {
	if m.SplitAfterColumn == nil {
		return 0
	}
	return *m.SplitAfterColumn
}

// Clone returns a copy that shares no slices or pointers with m
func (m RegionMeta) Clone() RegionMeta {
	clone := m
	clone.Rows = append([]int(nil), m.Rows...)
	if m.SplitAfterColumn != nil {
		k := *m.SplitAfterColumn
		clone.SplitAfterColumn = &k
	}
	return clone
}

// IntPtr is a helper for setting SplitAfterColumn
func IntPtr(v int) *int {
	return &v
}

// LoadRegions reads region metadata from a file.
// Files ending in .yaml or .yml are decoded as YAML; anything else goes
// through ParseRegions so a saved classifier response can be used directly.
func LoadRegions(path string) ([]RegionMeta, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read regions", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var metas []RegionMeta
		if err := yaml.Unmarshal(data, &metas); err != nil {
			return nil, NewDocumentError("parse regions", path, fmt.Errorf("invalid yaml: %w", err))
		}
		return metas, nil
	default:
		metas, err := ParseRegions(string(data))
		if err != nil {
			return nil, NewDocumentError("parse regions", path, err)
		}
		return metas, nil
	}
}
