// Package slug derives URL-safe identifiers from display names and assigns
// them collision-free across a whole table in a single deterministic pass.
package slug

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Target is one row that needs a slug: an opaque row identifier plus the raw
// display name the slug is derived from.
type Target struct {
	ID    string
	Label string
}

// Assignment pairs a newly computed slug with the row it belongs to.
type Assignment struct {
	Slug string
	ID   string
}

// Apostrophe-like characters are dropped outright, with no replacement,
// so "Griffin's Eagle" becomes griffins-eagle rather than griffin-s-eagle.
const apostrophes = "'‘’‛ʼʻ´`＇"

var (
	nonLetterRun = regexp.MustCompile(`[^a-z]+`)
	hyphenRun    = regexp.MustCompile(`-{2,}`)

	// base or base-N, lowercase letters and single hyphens only. Stored slugs
	// that do not match are reserved but never seed a suffix counter.
	wellFormed = regexp.MustCompile(`^([a-z]+(?:-[a-z]+)*)(?:-([0-9]+))?$`)

	nonASCII = runes.Predicate(func(r rune) bool { return r > unicode.MaxASCII })
)

// Base normalizes a display name into its canonical slug form. Apostrophe
// variants are removed, the rest is NFKD-decomposed and reduced to ASCII,
// lowercased, and every run of characters outside a-z collapses to one
// hyphen. Names with no ASCII representation normalize to "".
func Base(label string) string {
	s := strings.Map(func(r rune) rune {
		if strings.ContainsRune(apostrophes, r) {
			return -1
		}
		return r
	}, label)

	// Chained transformers buffer internally, so build one per call; Base
	// must stay safe for concurrent planners.
	ascii, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(nonASCII)), s)
	if err == nil {
		s = ascii
	}
	s = strings.ToLower(s)

	s = nonLetterRun.ReplaceAllString(s, "-")
	s = hyphenRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Assignments computes a unique slug for every target, honoring slugs already
// present in the store. Targets are processed in the exact order given; the
// caller decides precedence by sorting (the first target to claim a base gets
// the bare, un-suffixed slug).
//
// Suffix bookkeeping: an existing "name" counts as suffix 1 and "name-7" as
// suffix 7; a colliding target gets max+1, probed upward past any slug that
// is already taken. Gaps are never back-filled. An empty base falls back to
// "unnamed-<id>", which cannot collide since identifiers are unique.
func Assignments(targets []Target, existing []string) []Assignment {
	used := make(map[string]struct{}, len(existing)+len(targets))
	maxSuffix := make(map[string]int)

	for _, s := range existing {
		if s == "" {
			continue
		}
		used[s] = struct{}{}
		if base, n, ok := parseSlug(s); ok && n > maxSuffix[base] {
			maxSuffix[base] = n
		}
	}

	out := make([]Assignment, 0, len(targets))
	for _, t := range targets {
		base := Base(t.Label)
		if base == "" {
			base = "unnamed-" + t.ID
		}

		var assigned string
		if _, taken := used[base]; !taken && maxSuffix[base] == 0 {
			assigned = base
			maxSuffix[base] = 1
		} else {
			n := maxSuffix[base]
			if n < 1 {
				n = 1
			}
			for {
				n++
				candidate := fmt.Sprintf("%s-%d", base, n)
				if _, taken := used[candidate]; !taken {
					assigned = candidate
					break
				}
			}
			maxSuffix[base] = n
		}

		used[assigned] = struct{}{}
		out = append(out, Assignment{Slug: assigned, ID: t.ID})
	}
	return out
}

// parseSlug splits a stored slug into its base and numeric suffix. A bare
// well-formed slug parses as suffix 1. Non-conforming values report ok=false.
func parseSlug(s string) (base string, suffix int, ok bool) {
	m := wellFormed.FindStringSubmatch(s)
	if m == nil {
		return "", 0, false
	}
	if m[2] == "" {
		return m[1], 1, true
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], n, true
}
