// Package output converts resolution records into CSV, TSV or JSON lines.
package output

import (
	"strconv"
	"strings"

	"github.com/gnames/gnfmt"
	"github.com/gnames/gnvern/pkg/ent/vernacular"
)

var fields = []string{
	"ScientificName", "Lang", "CommonName", "MatchedName", "Indirect",
	"Priority", "Corroboration", "Sources", "Class", "Order", "Family",
}

// ParseFormat converts a format name into gnfmt.Format. Unknown names
// give CSV and false.
func ParseFormat(s string) (gnfmt.Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv", "":
		return gnfmt.CSV, true
	case "tsv":
		return gnfmt.TSV, true
	case "json", "compact":
		return gnfmt.CompactJSON, true
	case "pretty":
		return gnfmt.PrettyJSON, true
	default:
		return gnfmt.CSV, false
	}
}

// Header returns the header line for CSV and TSV formats, and an empty
// string for JSON.
func Header(f gnfmt.Format) string {
	switch f {
	case gnfmt.CSV:
		return gnfmt.ToCSV(fields, ',')
	case gnfmt.TSV:
		return gnfmt.ToCSV(fields, '\t')
	default:
		return ""
	}
}

// Output formats one record. CSV and TSV give one line per language and
// name, languages without names give a line with an empty common name.
// JSON gives the whole record.
func Output(
	rec vernacular.Record,
	langs []string,
	f gnfmt.Format,
) (string, error) {
	switch f {
	case gnfmt.CompactJSON, gnfmt.PrettyJSON:
		enc := gnfmt.GNjson{Pretty: f == gnfmt.PrettyJSON}
		bs, err := enc.Encode(rec)
		if err != nil {
			return "", err
		}
		return string(bs), nil
	case gnfmt.TSV:
		return csvOutput(rec, langs, '\t'), nil
	default:
		return csvOutput(rec, langs, ','), nil
	}
}

func csvOutput(rec vernacular.Record, langs []string, sep rune) string {
	var lines []string
	tax := []string{
		strings.Join(rec.Taxonomy.Class, "|"),
		strings.Join(rec.Taxonomy.Order, "|"),
		strings.Join(rec.Taxonomy.Family, "|"),
	}
	for _, lang := range langs {
		names := rec.Names[lang]
		if len(names) == 0 {
			row := append([]string{rec.Name, lang, "", "", "", "", "", ""}, tax...)
			lines = append(lines, gnfmt.ToCSV(row, sep))
			continue
		}
		for _, n := range names {
			row := []string{
				rec.Name,
				lang,
				n.CommonName,
				n.MatchedName,
				strconv.FormatBool(n.Indirect),
				strconv.Itoa(n.Priority),
				strconv.Itoa(n.Corroboration),
				strings.Join(n.Sources, "|"),
			}
			row = append(row, tax...)
			lines = append(lines, gnfmt.ToCSV(row, sep))
		}
	}
	return strings.Join(lines, "\n")
}
