// Package outlier flags geographic records whose coordinates are missing,
// physically impossible, or statistically far from their country's peers.
package outlier

import (
	"sort"
)

// Reason codes attached to a flagged record.
const (
	ReasonMissing  = "missing"
	ReasonLatRange = "latitude range"
	ReasonLonRange = "longitude range"
	ReasonLatIQR   = "latitude iqr"
	ReasonLonIQR   = "longitude iqr"
)

// Coordinate domain limits.
const (
	latMin = -90.0
	latMax = 90.0
	lonMin = -180.0
	lonMax = 180.0
)

// minGroupSize is the smallest country group for which quartile fences are
// defined; smaller groups are never statistically flagged.
const minGroupSize = 4

// Record is one geographic row under inspection. Country groups the record
// for the statistical pass; a nil country forms its own group. Records are
// never mutated.
type Record struct {
	ID        string
	Country   *string
	Latitude  *float64
	Longitude *float64
	Name      *string
}

// Report collects everything suspicious about a single record: the distinct
// reason codes, sorted, and a severity expressed in IQR-widths beyond the
// nearest violated fence. Structural findings alone carry severity 0.
type Report struct {
	ID       string
	Reasons  []string
	Severity float64
}

// FindSuspicious runs both detection passes and merges their findings per
// record: reasons are unioned and severity is the maximum observed. Records
// flagged by the structural pass are excluded from their group's statistics
// entirely, so one bad import cannot widen a country's fences.
func FindSuspicious(records []Record) map[string]*Report {
	structural, valid := checkStructural(records)
	statistical := checkGroups(valid)

	reports := make(map[string]*Report, len(structural)+len(statistical))
	for id, reasons := range structural {
		reports[id] = &Report{ID: id, Reasons: reasons}
	}
	for id, f := range statistical {
		r, ok := reports[id]
		if !ok {
			r = &Report{ID: id}
			reports[id] = r
		}
		r.Reasons = append(r.Reasons, f.reasons...)
		if f.severity > r.Severity {
			r.Severity = f.severity
		}
	}

	for _, r := range reports {
		r.Reasons = sortedDistinct(r.Reasons)
	}
	return reports
}

// Ranked flattens a report map into presentation order: severity descending,
// then identifier ascending.
func Ranked(reports map[string]*Report) []*Report {
	out := make([]*Report, 0, len(reports))
	for _, r := range reports {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Severity != out[j].Severity {
			return out[i].Severity > out[j].Severity
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// checkStructural is pass 1: missing coordinates and out-of-domain values.
// It returns the flagged reasons per record plus the records that remain
// eligible for the statistical pass.
func checkStructural(records []Record) (map[string][]string, []Record) {
	flagged := make(map[string][]string)
	valid := make([]Record, 0, len(records))

	for _, rec := range records {
		if rec.Latitude == nil || rec.Longitude == nil {
			flagged[rec.ID] = append(flagged[rec.ID], ReasonMissing)
			continue
		}

		var reasons []string
		if *rec.Latitude < latMin || *rec.Latitude > latMax {
			reasons = append(reasons, ReasonLatRange)
		}
		if *rec.Longitude < lonMin || *rec.Longitude > lonMax {
			reasons = append(reasons, ReasonLonRange)
		}
		if len(reasons) > 0 {
			flagged[rec.ID] = append(flagged[rec.ID], reasons...)
			continue
		}

		valid = append(valid, rec)
	}
	return flagged, valid
}

type finding struct {
	reasons  []string
	severity float64
}

// groupKey keeps the absent-country group distinct from every real value,
// including the empty string.
type groupKey struct {
	known bool
	name  string
}

func keyFor(country *string) groupKey {
	if country == nil {
		return groupKey{}
	}
	return groupKey{known: true, name: *country}
}

// checkGroups is pass 2: grouped quartile fencing over records that survived
// pass 1. Each country with at least minGroupSize members gets independent
// latitude and longitude fences at Q1-1.5*IQR and Q3+1.5*IQR.
func checkGroups(valid []Record) map[string]*finding {
	groups := make(map[groupKey][]Record)
	for _, rec := range valid {
		key := keyFor(rec.Country)
		groups[key] = append(groups[key], rec)
	}

	findings := make(map[string]*finding)
	for _, members := range groups {
		if len(members) < minGroupSize {
			continue
		}

		lats := make([]float64, len(members))
		lons := make([]float64, len(members))
		for i, rec := range members {
			lats[i] = *rec.Latitude
			lons[i] = *rec.Longitude
		}
		latFence := fenceFor(lats)
		lonFence := fenceFor(lons)

		for _, rec := range members {
			if sev, out := latFence.exceedance(*rec.Latitude); out {
				appendFinding(findings, rec.ID, ReasonLatIQR, sev)
			}
			if sev, out := lonFence.exceedance(*rec.Longitude); out {
				appendFinding(findings, rec.ID, ReasonLonIQR, sev)
			}
		}
	}
	return findings
}

func appendFinding(findings map[string]*finding, id, reason string, severity float64) {
	f, ok := findings[id]
	if !ok {
		f = &finding{}
		findings[id] = f
	}
	f.reasons = append(f.reasons, reason)
	if severity > f.severity {
		f.severity = severity
	}
}

// fence holds the Tukey bounds for one dimension of one group.
type fence struct {
	lower, upper float64
	iqr          float64
}

func fenceFor(values []float64) fence {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	q1 := quartile(sorted, 0.25)
	q3 := quartile(sorted, 0.75)
	iqr := q3 - q1
	return fence{lower: q1 - 1.5*iqr, upper: q3 + 1.5*iqr, iqr: iqr}
}

// exceedance reports how far v lies beyond the fence, in IQR-widths. A
// zero-spread group still flags values off the fence but with severity 0.
func (f fence) exceedance(v float64) (float64, bool) {
	var dist float64
	switch {
	case v < f.lower:
		dist = f.lower - v
	case v > f.upper:
		dist = v - f.upper
	default:
		return 0, false
	}
	if f.iqr == 0 {
		return 0, true
	}
	return dist / f.iqr, true
}

// quartile computes the p-quantile of pre-sorted values using inclusive
// interpolation: position (n-1)*p, linear between neighbors.
func quartile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := float64(n-1) * p
	lo := int(pos)
	frac := pos - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

func sortedDistinct(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
