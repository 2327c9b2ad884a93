// Package taxonomy resolves parent links between animals by matching the
// imported parent-name column against animal names.
package taxonomy

import "strings"

// Node is one animal row in the taxonomy: its own name plus the raw parent
// name from the import, and the parent id if one is already linked.
type Node struct {
	ID         string
	Name       string
	ParentName string
	ParentID   *string
}

// Link is a planned parent assignment for one row.
type Link struct {
	ChildID  string
	ParentID string
}

// Skip explains why a row could not be linked.
type Skip struct {
	ChildID    string
	ParentName string
	Reason     string
}

// Skip reasons.
const (
	SkipNoMatch   = "no animal matches parent name"
	SkipAmbiguous = "parent name matches multiple animals"
	SkipSelf      = "row names itself as parent"
)

// ResolveParents plans parent links for every node that has a parent name but
// no parent id yet. Matching is case-insensitive on the exact name; rows with
// zero or multiple candidates are skipped and reported, never guessed.
func ResolveParents(nodes []Node) ([]Link, []Skip) {
	byName := make(map[string][]string, len(nodes))
	for _, n := range nodes {
		key := strings.ToLower(strings.TrimSpace(n.Name))
		if key == "" {
			continue
		}
		byName[key] = append(byName[key], n.ID)
	}

	var links []Link
	var skips []Skip
	for _, n := range nodes {
		if n.ParentID != nil || strings.TrimSpace(n.ParentName) == "" {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(n.ParentName))
		candidates := byName[key]
		switch {
		case len(candidates) == 0:
			skips = append(skips, Skip{ChildID: n.ID, ParentName: n.ParentName, Reason: SkipNoMatch})
		case len(candidates) > 1:
			skips = append(skips, Skip{ChildID: n.ID, ParentName: n.ParentName, Reason: SkipAmbiguous})
		case candidates[0] == n.ID:
			skips = append(skips, Skip{ChildID: n.ID, ParentName: n.ParentName, Reason: SkipSelf})
		default:
			links = append(links, Link{ChildID: n.ID, ParentID: candidates[0]})
		}
	}
	return links, skips
}
