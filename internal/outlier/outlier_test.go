package outlier

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func rec(id, country string, lat, lon float64) Record {
	return Record{ID: id, Country: &country, Latitude: &lat, Longitude: &lon}
}

func TestFindSuspicious_MissingCoordinates(t *testing.T) {
	country := "X"
	records := []Record{
		{ID: "a", Country: &country, Latitude: ptr(10.0)},
		{ID: "b", Country: &country, Longitude: ptr(10.0)},
		{ID: "c", Country: &country},
	}
	got := FindSuspicious(records)
	require.Len(t, got, 3)
	for _, id := range []string{"a", "b", "c"} {
		require.Contains(t, got, id)
		assert.Equal(t, []string{ReasonMissing}, got[id].Reasons)
		assert.Zero(t, got[id].Severity)
	}
}

func TestFindSuspicious_RangeViolations(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
		lon  float64
		want []string
	}{
		{"latitude high", 95, 0, []string{ReasonLatRange}},
		{"latitude low", -90.5, 0, []string{ReasonLatRange}},
		{"longitude high", 0, 180.1, []string{ReasonLonRange}},
		{"longitude low", 0, -200, []string{ReasonLonRange}},
		{"both", 100, 300, []string{ReasonLatRange, ReasonLonRange}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindSuspicious([]Record{rec("z", "X", tt.lat, tt.lon)})
			require.Contains(t, got, "z")
			assert.Equal(t, tt.want, got["z"].Reasons)
			assert.Zero(t, got["z"].Severity)
		})
	}
}

func TestFindSuspicious_BoundaryValuesAreValid(t *testing.T) {
	records := []Record{
		rec("a", "X", 90, 180),
		rec("b", "X", -90, -180),
	}
	assert.Empty(t, FindSuspicious(records))
}

func TestFindSuspicious_LongitudeIQRFixture(t *testing.T) {
	// Four clustered longitudes and one far off; only the stray is flagged.
	records := []Record{
		rec("w1", "W", 40, -10),
		rec("w2", "W", 40, -11),
		rec("w3", "W", 40, -12),
		rec("w4", "W", 40, -13),
		rec("w5", "W", 40, -60),
	}
	got := FindSuspicious(records)
	require.Len(t, got, 1)
	require.Contains(t, got, "w5")
	assert.Equal(t, []string{ReasonLonIQR}, got["w5"].Reasons)
	assert.Greater(t, got["w5"].Severity, 0.0)
}

func TestFindSuspicious_IQRSeverityValue(t *testing.T) {
	// Sorted lons: -60, -13, -12, -11, -10. Q1 = -13, Q3 = -11, IQR = 2,
	// lower fence = -16, so -60 sits (60-16)/2 = 22 IQR-widths out.
	records := []Record{
		rec("w1", "W", 40, -10),
		rec("w2", "W", 40, -11),
		rec("w3", "W", 40, -12),
		rec("w4", "W", 40, -13),
		rec("w5", "W", 40, -60),
	}
	got := FindSuspicious(records)
	require.Contains(t, got, "w5")
	assert.InDelta(t, 22.0, got["w5"].Severity, 1e-9)
}

func TestFindSuspicious_RangePrecedence(t *testing.T) {
	// The lat-95 record is excluded from W's sample: with it removed the
	// remaining latitudes are tight and none of them get flagged, and the
	// invalid record itself is never additionally marked as an iqr outlier.
	records := []Record{
		rec("bad", "W", 95, -11.5),
		rec("w1", "W", 40, -10),
		rec("w2", "W", 40.1, -11),
		rec("w3", "W", 39.9, -12),
		rec("w4", "W", 40.2, -13),
	}
	got := FindSuspicious(records)
	require.Len(t, got, 1)
	require.Contains(t, got, "bad")
	assert.Equal(t, []string{ReasonLatRange}, got["bad"].Reasons)
}

func TestFindSuspicious_MinimumGroupSize(t *testing.T) {
	// Three valid records never produce iqr flags regardless of spread.
	records := []Record{
		rec("a", "X", 0, 0),
		rec("b", "X", 0, 1),
		rec("c", "X", 80, 170),
	}
	assert.Empty(t, FindSuspicious(records))
}

func TestFindSuspicious_NilCountryFormsOwnGroup(t *testing.T) {
	records := []Record{
		{ID: "n1", Latitude: ptr(10.0), Longitude: ptr(10.0)},
		{ID: "n2", Latitude: ptr(10.0), Longitude: ptr(11.0)},
		{ID: "n3", Latitude: ptr(10.0), Longitude: ptr(12.0)},
		{ID: "n4", Latitude: ptr(10.0), Longitude: ptr(13.0)},
		{ID: "n5", Latitude: ptr(10.0), Longitude: ptr(90.0)},
	}
	got := FindSuspicious(records)
	require.Len(t, got, 1)
	require.Contains(t, got, "n5")
	assert.Equal(t, []string{ReasonLonIQR}, got["n5"].Reasons)
}

func TestFindSuspicious_EmptyCountryDistinctFromNil(t *testing.T) {
	// Two nil-country records and two empty-string records. Merged they would
	// clear the group-size threshold and fence out e2 (merged lons 10, 10.5,
	// 11, 60: Q3=23.25, upper fence 42.5625). Kept separate, each group is
	// below the threshold and nothing is flagged.
	records := []Record{
		{ID: "n1", Latitude: ptr(10.0), Longitude: ptr(10.0)},
		{ID: "n2", Latitude: ptr(10.0), Longitude: ptr(11.0)},
		rec("e1", "", 10, 10.5),
		rec("e2", "", 10, 60),
	}
	assert.Empty(t, FindSuspicious(records))
}

func TestFindSuspicious_ZeroSpreadSeverity(t *testing.T) {
	// Identical longitudes make IQR zero; the stray is still flagged but
	// its severity is defined as 0 rather than dividing by zero.
	records := []Record{
		rec("a", "X", 10, 5),
		rec("b", "X", 11, 5),
		rec("c", "X", 12, 5),
		rec("d", "X", 13, 5),
		rec("e", "X", 11.5, 7),
	}
	got := FindSuspicious(records)
	require.Contains(t, got, "e")
	assert.Contains(t, got["e"].Reasons, ReasonLonIQR)
	assert.Zero(t, got["e"].Severity)
}

func TestFindSuspicious_BothDimensionsFlagged(t *testing.T) {
	records := []Record{
		rec("a", "X", 10, 5),
		rec("b", "X", 10.1, 5.1),
		rec("c", "X", 9.9, 4.9),
		rec("d", "X", 10.2, 5.2),
		rec("e", "X", 50, 60),
	}
	got := FindSuspicious(records)
	require.Contains(t, got, "e")
	assert.Equal(t, []string{ReasonLatIQR, ReasonLonIQR}, got["e"].Reasons)
	assert.Greater(t, got["e"].Severity, 0.0)
}

func TestRanked_Order(t *testing.T) {
	reports := map[string]*Report{
		"b": {ID: "b", Reasons: []string{ReasonLonIQR}, Severity: 2.5},
		"a": {ID: "a", Reasons: []string{ReasonMissing}},
		"c": {ID: "c", Reasons: []string{ReasonLatIQR}, Severity: 7.1},
		"d": {ID: "d", Reasons: []string{ReasonLatRange}},
	}
	got := Ranked(reports)
	require.Len(t, got, 4)
	var ids []string
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	// Severity descending, ties broken by id ascending.
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids)
}

func TestQuartile_InclusiveInterpolation(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		p      float64
		want   float64
	}{
		{"single", []float64{5}, 0.25, 5},
		{"q1 of four", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"q3 of four", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"q1 of five", []float64{1, 2, 3, 4, 5}, 0.25, 2},
		{"q3 of five", []float64{1, 2, 3, 4, 5}, 0.75, 4},
		{"median of even", []float64{1, 2, 3, 10}, 0.5, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, quartile(tt.values, tt.p), 1e-12)
		})
	}
}

func TestBoundsByCountry(t *testing.T) {
	records := []Record{
		rec("a", "X", 10, 5),
		rec("b", "X", 12, -3),
		rec("c", "Y", -1, 100),
		rec("bad", "X", 95, 0),
		{ID: "n", Latitude: ptr(1.0), Longitude: ptr(2.0)},
	}
	got := BoundsByCountry(records)
	require.Len(t, got, 3)

	// Sorted by country, absent-country group first.
	assert.Equal(t, CountryBounds{Country: nil, Count: 1, MinLon: 2, MinLat: 1, MaxLon: 2, MaxLat: 1}, got[0])
	assert.Equal(t, CountryBounds{Country: ptr("X"), Count: 2, MinLon: -3, MinLat: 10, MaxLon: 5, MaxLat: 12}, got[1])
	assert.Equal(t, CountryBounds{Country: ptr("Y"), Count: 1, MinLon: 100, MinLat: -1, MaxLon: 100, MaxLat: -1}, got[2])
}

func TestBoundsByCountry_EmptyStringIsRealCountry(t *testing.T) {
	records := []Record{
		rec("e1", "", 10, 5),
		{ID: "n1", Latitude: ptr(50.0), Longitude: ptr(8.0)},
	}
	got := BoundsByCountry(records)
	require.Len(t, got, 2)
	assert.Nil(t, got[0].Country)
	require.NotNil(t, got[1].Country)
	assert.Equal(t, "", *got[1].Country)
}

func TestFindSuspicious_LargeGroupNoFalsePositives(t *testing.T) {
	var records []Record
	for i := 0; i < 40; i++ {
		records = append(records, rec(fmt.Sprintf("r%02d", i), "DE", 48+float64(i)*0.05, 9+float64(i)*0.05))
	}
	assert.Empty(t, FindSuspicious(records))
}
