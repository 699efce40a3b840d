// Package config holds per-data-set view preferences, their on-disk
// persistence keyed by source-file identity, and the optional user-wide
// application config file.
package config

// ViewKind selects how one data set is displayed.
type ViewKind string

const (
	ViewTable ViewKind = "table"
	ViewBars  ViewKind = "bars"
	ViewTree  ViewKind = "tree"
	ViewSkip  ViewKind = "skip"
)

// Preference captures how one data set should be shown: its view kind, the
// slide it appears on, and an optional explicit column selection. An empty
// column list means "all columns in native order".
type Preference struct {
	View    ViewKind `json:"type"`
	Slide   int      `json:"slide"`
	Columns []string `json:"columns,omitempty"`
}

// Normalize clamps slide numbers below one and replaces unrecognized view
// kinds with the table default. Stored preference files may carry values
// written by older builds or edited by hand.
func (p Preference) Normalize() Preference {
	if p.Slide < 1 {
		p.Slide = 1
	}
	switch p.View {
	case ViewTable, ViewBars, ViewTree, ViewSkip:
	default:
		p.View = ViewTable
	}
	return p
}
