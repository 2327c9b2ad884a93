// Package report renders coordinate-review findings for humans: tab-separated
// text for terminals and pipes, YAML for tooling, XLSX for spreadsheet review.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/wildatlas/zootrack/internal/outlier"
)

// Row is one flagged record joined with its source fields.
type Row struct {
	ID        string   `yaml:"id"`
	Country   string   `yaml:"country"`
	Name      string   `yaml:"name"`
	Latitude  *float64 `yaml:"latitude"`
	Longitude *float64 `yaml:"longitude"`
	Reasons   []string `yaml:"reasons"`
	Severity  float64  `yaml:"severity"`
}

// Build joins ranked reports back to their source records, preserving the
// ranked order (severity descending, id ascending).
func Build(records []outlier.Record, ranked []*outlier.Report) []Row {
	byID := make(map[string]outlier.Record, len(records))
	for _, r := range records {
		byID[r.ID] = r
	}

	rows := make([]Row, 0, len(ranked))
	for _, rep := range ranked {
		rec := byID[rep.ID]
		row := Row{
			ID:        rep.ID,
			Latitude:  rec.Latitude,
			Longitude: rec.Longitude,
			Reasons:   rep.Reasons,
			Severity:  rep.Severity,
		}
		if rec.Country != nil {
			row.Country = *rec.Country
		}
		if rec.Name != nil {
			row.Name = *rec.Name
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteTSV writes one tab-separated line per row: id, country, name,
// latitude, longitude, comma-joined reasons, severity to three decimals.
func WriteTSV(w io.Writer, rows []Row) error {
	for _, r := range rows {
		_, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.3f\n",
			r.ID, r.Country, r.Name,
			formatCoord(r.Latitude), formatCoord(r.Longitude),
			strings.Join(r.Reasons, ","), r.Severity)
		if err != nil {
			return eris.Wrap(err, "report: write tsv")
		}
	}
	return nil
}

// WriteYAML writes the rows as a YAML document.
func WriteYAML(w io.Writer, rows []Row) error {
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(rows); err != nil {
		enc.Close() //nolint:errcheck
		return eris.Wrap(err, "report: encode yaml")
	}
	return eris.Wrap(enc.Close(), "report: flush yaml")
}

// WriteXLSX writes the rows to a single-sheet spreadsheet at path.
func WriteXLSX(path string, rows []Row) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("suspicious")
	if err != nil {
		return eris.Wrap(err, "report: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"id", "country", "name", "latitude", "longitude", "reasons", "severity"} {
		header.AddCell().SetString(h)
	}

	for _, r := range rows {
		row := sheet.AddRow()
		row.AddCell().SetString(r.ID)
		row.AddCell().SetString(r.Country)
		row.AddCell().SetString(r.Name)
		row.AddCell().SetString(formatCoord(r.Latitude))
		row.AddCell().SetString(formatCoord(r.Longitude))
		row.AddCell().SetString(strings.Join(r.Reasons, ","))
		row.AddCell().SetFloat(r.Severity)
	}

	return eris.Wrapf(f.Save(path), "report: save %s", path)
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
