package clean

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeApostrophes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already ascii", "Griffin's Eagle", "Griffin's Eagle"},
		{"right single quote", "Griffin’s Eagle", "Griffin's Eagle"},
		{"left single quote", "‘quoted’", "'quoted'"},
		{"modifier letter", "Hawaiʻi", "Hawai'i"},
		{"acute as apostrophe", "O´Connor", "O'Connor"},
		{"grave as apostrophe", "O`Connor", "O'Connor"},
		{"fullwidth", "L＇Oiseau", "L'Oiseau"},
		{"untouched", "Red Panda", "Red Panda"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeApostrophes(tt.in))
		})
	}
}

func TestApostropheFixes(t *testing.T) {
	rows := []NameRow{
		{ID: "1", Name: "Griffin’s Eagle"},
		{ID: "2", Name: "Red Panda"},
		{ID: "3", Name: "O´Connor’s Zoo"},
	}
	fixes := ApostropheFixes(rows)
	require.Len(t, fixes, 2)
	assert.Equal(t, NameFix{ID: "1", Old: "Griffin’s Eagle", New: "Griffin's Eagle"}, fixes[0])
	assert.Equal(t, NameFix{ID: "3", Old: "O´Connor’s Zoo", New: "O'Connor's Zoo"}, fixes[1])
}

func TestTranslateCountry(t *testing.T) {
	got, ok := TranslateCountry("Deutschland")
	assert.True(t, ok)
	assert.Equal(t, "Germany", got)

	// Already-English and unknown names pass through untranslated.
	got, ok = TranslateCountry("Japan")
	assert.False(t, ok)
	assert.Equal(t, "Japan", got)

	got, ok = TranslateCountry("Atlantis")
	assert.False(t, ok)
	assert.Equal(t, "Atlantis", got)
}

func TestCountryFixes(t *testing.T) {
	rows := []CountryRow{
		{ID: "1", Country: "Deutschland"},
		{ID: "2", Country: "Germany"},
		{ID: "3", Country: "Vereinigte Staaten"},
		{ID: "4", Country: ""},
	}
	fixes := CountryFixes(rows)
	require.Len(t, fixes, 2)
	assert.Equal(t, NameFix{ID: "1", Old: "Deutschland", New: "Germany"}, fixes[0])
	assert.Equal(t, NameFix{ID: "3", Old: "Vereinigte Staaten", New: "United States"}, fixes[1])
}
