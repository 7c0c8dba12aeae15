package diff

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/Hru-s/vaultpermdiff/internal/model"
)

// Compare performs an outer join of source and target on the permission key.
// Each distinct key yields exactly one row, ordered by first discovery over
// source and then target. Field values come from the side that first
// produced the key.
func Compare(source, target []model.PermissionRecord) []model.ComparisonRow {
	inSource := sets.New[model.PermissionKey]()
	inTarget := sets.New[model.PermissionKey]()

	var order []model.PermissionKey
	first := make(map[model.PermissionKey]model.PermissionRecord)

	remember := func(r model.PermissionRecord) model.PermissionKey {
		k := r.Key()
		if _, ok := first[k]; !ok {
			first[k] = r
			order = append(order, k)
		}
		return k
	}

	for _, r := range source {
		inSource.Insert(remember(r))
	}
	for _, r := range target {
		inTarget.Insert(remember(r))
	}

	rows := make([]model.ComparisonRow, 0, len(order))
	for _, k := range order {
		var c model.Classification
		switch {
		case inSource.Has(k) && inTarget.Has(k):
			c = model.Both
		case inSource.Has(k):
			c = model.SourceOnly
		default:
			c = model.TargetOnly
		}
		rows = append(rows, model.ComparisonRow{Record: first[k], Classification: c})
	}
	return rows
}

// Deduplicate keeps the first row for each permission key. The
// classification is not part of the key.
func Deduplicate(rows []model.ComparisonRow) []model.ComparisonRow {
	seen := sets.New[model.PermissionKey]()
	out := make([]model.ComparisonRow, 0, len(rows))
	for _, r := range rows {
		k := r.Key()
		if seen.Has(k) {
			continue
		}
		seen.Insert(k)
		out = append(out, r)
	}
	return out
}

// Summary counts comparison rows per classification.
type Summary struct {
	SourceOnly int `json:"sourceOnly"`
	TargetOnly int `json:"targetOnly"`
	Both       int `json:"both"`
}

// Total is the number of rows summarized.
func (s Summary) Total() int {
	return s.SourceOnly + s.TargetOnly + s.Both
}

// Mismatches is the number of rows present on one side only.
func (s Summary) Mismatches() int {
	return s.SourceOnly + s.TargetOnly
}

// Summarize counts rows per classification.
func Summarize(rows []model.ComparisonRow) Summary {
	var s Summary
	for _, r := range rows {
		switch r.Classification {
		case model.SourceOnly:
			s.SourceOnly++
		case model.TargetOnly:
			s.TargetOnly++
		case model.Both:
			s.Both++
		}
	}
	return s
}
