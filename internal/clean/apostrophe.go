// Package clean computes small text-repair plans for the zoo dataset:
// apostrophe normalization and country-name translation. Like the slug and
// outlier cores, nothing here touches the store; each function returns a plan
// the caller previews and applies.
package clean

import "strings"

// Typographic and legacy apostrophe variants that should read as a plain
// ASCII apostrophe in display names.
var apostropheReplacer = strings.NewReplacer(
	"‘", "'", // left single quotation mark
	"’", "'", // right single quotation mark
	"‛", "'", // single high-reversed-9 quotation mark
	"ʼ", "'", // modifier letter apostrophe
	"ʻ", "'", // modifier letter turned comma
	"´", "'", // acute accent
	"`", "'", // grave accent
	"＇", "'", // fullwidth apostrophe
)

// NameRow is one row whose display name may need repair.
type NameRow struct {
	ID   string
	Name string
}

// NameFix records a planned rename for a single row.
type NameFix struct {
	ID  string
	Old string
	New string
}

// NormalizeApostrophes rewrites apostrophe variants to the ASCII form.
func NormalizeApostrophes(s string) string {
	return apostropheReplacer.Replace(s)
}

// ApostropheFixes returns a fix for every row whose name changes under
// apostrophe normalization, in input order.
func ApostropheFixes(rows []NameRow) []NameFix {
	var fixes []NameFix
	for _, r := range rows {
		fixed := NormalizeApostrophes(r.Name)
		if fixed != r.Name {
			fixes = append(fixes, NameFix{ID: r.ID, Old: r.Name, New: fixed})
		}
	}
	return fixes
}
