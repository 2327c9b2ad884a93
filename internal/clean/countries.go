package clean

// countryNames maps the German country names the dataset was imported with
// to their canonical English form. Unknown names are left untouched; the
// table grows as new spellings show up in imports.
var countryNames = map[string]string{
	"Deutschland":                  "Germany",
	"Österreich":                   "Austria",
	"Schweiz":                      "Switzerland",
	"Frankreich":                   "France",
	"Italien":                      "Italy",
	"Spanien":                      "Spain",
	"Portugal":                     "Portugal",
	"Niederlande":                  "Netherlands",
	"Belgien":                      "Belgium",
	"Luxemburg":                    "Luxembourg",
	"Dänemark":                     "Denmark",
	"Schweden":                     "Sweden",
	"Norwegen":                     "Norway",
	"Finnland":                     "Finland",
	"Island":                       "Iceland",
	"Irland":                       "Ireland",
	"Großbritannien":               "United Kingdom",
	"Vereinigtes Königreich":       "United Kingdom",
	"Polen":                        "Poland",
	"Tschechien":                   "Czechia",
	"Tschechische Republik":        "Czechia",
	"Slowakei":                     "Slovakia",
	"Ungarn":                       "Hungary",
	"Slowenien":                    "Slovenia",
	"Kroatien":                     "Croatia",
	"Serbien":                      "Serbia",
	"Bosnien und Herzegowina":      "Bosnia and Herzegovina",
	"Rumänien":                     "Romania",
	"Bulgarien":                    "Bulgaria",
	"Griechenland":                 "Greece",
	"Türkei":                       "Turkey",
	"Russland":                     "Russia",
	"Ukraine":                      "Ukraine",
	"Weißrussland":                 "Belarus",
	"Estland":                      "Estonia",
	"Lettland":                     "Latvia",
	"Litauen":                      "Lithuania",
	"Vereinigte Staaten":           "United States",
	"USA":                          "United States",
	"Kanada":                       "Canada",
	"Mexiko":                       "Mexico",
	"Brasilien":                    "Brazil",
	"Argentinien":                  "Argentina",
	"Chile":                        "Chile",
	"Südafrika":                    "South Africa",
	"Ägypten":                      "Egypt",
	"Marokko":                      "Morocco",
	"Kenia":                        "Kenya",
	"Indien":                       "India",
	"China":                        "China",
	"Japan":                        "Japan",
	"Südkorea":                     "South Korea",
	"Thailand":                     "Thailand",
	"Vietnam":                      "Vietnam",
	"Indonesien":                   "Indonesia",
	"Singapur":                     "Singapore",
	"Australien":                   "Australia",
	"Neuseeland":                   "New Zealand",
	"Vereinigte Arabische Emirate": "United Arab Emirates",
	"Saudi-Arabien":                "Saudi Arabia",
	"Israel":                       "Israel",
}

// CountryRow is one row carrying a possibly localized country name.
type CountryRow struct {
	ID      string
	Country string
}

// TranslateCountry returns the English name for a localized country string.
// ok is false when the name has no entry and should be left as-is.
func TranslateCountry(name string) (string, bool) {
	english, ok := countryNames[name]
	if !ok || english == name {
		return name, false
	}
	return english, true
}

// CountryFixes returns a fix for every row whose country has a translation,
// in input order.
func CountryFixes(rows []CountryRow) []NameFix {
	var fixes []NameFix
	for _, r := range rows {
		if english, ok := TranslateCountry(r.Country); ok {
			fixes = append(fixes, NameFix{ID: r.ID, Old: r.Country, New: english})
		}
	}
	return fixes
}
