package model

import (
	"fmt"
	"slices"
	"strings"
)

// permissionSeparator joins a sorted permission list into a single key field.
// Vault permission names never contain the unit separator.
const permissionSeparator = "\x1f"

// PermissionKey uniquely identifies a permission record for comparison.
type PermissionKey struct {
	Object      string
	Group       string
	Subgroup    string
	Permissions string // sorted permission list, joined
}

// PermissionRecord is one normalized (object, group, subgroup, permissions) tuple.
type PermissionRecord struct {
	Object             string   `json:"object"`
	PermissionGroup    string   `json:"permissionGroup"`
	PermissionSubgroup string   `json:"permissionSubgroup"`
	PermissionList     []string `json:"permissionList"` // always sorted
}

// NewPermissionRecord builds a record with its permission list sorted. The
// input slice is not modified.
func NewPermissionRecord(object, group, subgroup string, permissions []string) PermissionRecord {
	list := slices.Clone(permissions)
	if list == nil {
		list = []string{}
	}
	slices.Sort(list)
	return PermissionRecord{
		Object:             object,
		PermissionGroup:    group,
		PermissionSubgroup: subgroup,
		PermissionList:     list,
	}
}

// Key returns the comparison key of the record.
func (r PermissionRecord) Key() PermissionKey {
	return PermissionKey{
		Object:      r.Object,
		Group:       r.PermissionGroup,
		Subgroup:    r.PermissionSubgroup,
		Permissions: strings.Join(r.PermissionList, permissionSeparator),
	}
}

// Permissions renders the permission list for display.
func (r PermissionRecord) Permissions() string {
	return strings.Join(r.PermissionList, ", ")
}

func (r PermissionRecord) String() string {
	return fmt.Sprintf("object=%s group=%s subgroup=%s permissions=[%s]",
		r.Object, r.PermissionGroup, r.PermissionSubgroup, r.Permissions())
}

// Classification tells which side(s) of a comparison held a key.
type Classification string

const (
	SourceOnly Classification = "source_only"
	TargetOnly Classification = "target_only"
	Both       Classification = "both"
)

// Label is the human-readable diff label written to reports.
func (c Classification) Label() string {
	switch c {
	case SourceOnly:
		return "Only in Source"
	case TargetOnly:
		return "Only in Target"
	case Both:
		return "In Both"
	default:
		return string(c)
	}
}

// ComparisonRow is a permission record annotated with its classification.
type ComparisonRow struct {
	Record         PermissionRecord `json:"record"`
	Classification Classification   `json:"classification"`
}

// Key returns the comparison key of the row's record. The classification is
// not part of it.
func (r ComparisonRow) Key() PermissionKey {
	return r.Record.Key()
}
