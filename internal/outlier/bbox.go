package outlier

import (
	"sort"

	"github.com/twpayne/go-geom"
)

// CountryBounds summarizes the geographic extent of one country's valid
// records, for eyeballing imports whose whole group drifted. A nil Country
// is the absent-country group, distinct from the empty-string value.
type CountryBounds struct {
	Country *string
	Count   int
	MinLon  float64
	MinLat  float64
	MaxLon  float64
	MaxLat  float64
}

// BoundsByCountry computes per-country bounding boxes over records that pass
// the structural checks. Records failing pass 1 are ignored, same as in the
// statistical pass.
func BoundsByCountry(records []Record) []CountryBounds {
	_, valid := checkStructural(records)

	boxes := make(map[groupKey]*geom.Bounds)
	counts := make(map[groupKey]int)
	for _, rec := range valid {
		key := keyFor(rec.Country)
		b, ok := boxes[key]
		if !ok {
			b = geom.NewBounds(geom.XY)
			boxes[key] = b
		}
		b.Extend(geom.NewPointFlat(geom.XY, []float64{*rec.Longitude, *rec.Latitude}))
		counts[key]++
	}

	out := make([]CountryBounds, 0, len(boxes))
	for key, b := range boxes {
		cb := CountryBounds{
			Count:  counts[key],
			MinLon: b.Min(0),
			MinLat: b.Min(1),
			MaxLon: b.Max(0),
			MaxLat: b.Max(1),
		}
		if key.known {
			name := key.name
			cb.Country = &name
		}
		out = append(out, cb)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Country, out[j].Country
		if a == nil || b == nil {
			return a == nil && b != nil
		}
		return *a < *b
	})
	return out
}
