package enrich

import (
	"encoding/csv"
	"os"
	"strings"

	apperrors "remit835/internal/errors"
)

// LoadTrips reads a trips CSV and builds the RUN to pickup-ZIP map. The file
// carries a header row with RUN and puzip columns (case-insensitive).
// Duplicate RUNs keep the first non-empty ZIP.
func LoadTrips(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewEnrichmentError("open trips file", err).
			WithContext("path", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewEnrichmentError("read trips file", err).
			WithContext("path", path)
	}
	if len(records) == 0 {
		return map[string]string{}, nil
	}

	runIdx, zipIdx := -1, -1
	for i, header := range records[0] {
		switch strings.ToLower(strings.TrimSpace(header)) {
		case "run":
			runIdx = i
		case "puzip":
			zipIdx = i
		}
	}
	if runIdx < 0 || zipIdx < 0 {
		return nil, apperrors.NewEnrichmentError("trips file missing RUN or puzip column", nil).
			WithContext("path", path)
	}

	trips := make(map[string]string)
	for _, record := range records[1:] {
		if runIdx >= len(record) || zipIdx >= len(record) {
			continue
		}
		run := strings.TrimSpace(record[runIdx])
		zip := NormalizeZIP(record[zipIdx])
		if run == "" || zip == "" {
			continue
		}
		if _, seen := trips[run]; !seen {
			trips[run] = zip
		}
	}
	return trips, nil
}

// NormalizeZIP reduces a ZIP value to five digits: ZIP+4 suffixes are
// stripped (with or without the hyphen) and short ZIPs are left-padded with
// zeros. Returns "" when no digits remain.
func NormalizeZIP(zip string) string {
	zip = strings.TrimSpace(zip)
	if zip == "" {
		return ""
	}
	if idx := strings.IndexByte(zip, '-'); idx >= 0 {
		zip = zip[:idx]
	}
	var digits strings.Builder
	for _, r := range zip {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	d := digits.String()
	switch {
	case d == "":
		return ""
	case len(d) >= 5:
		return d[:5]
	default:
		return strings.Repeat("0", 5-len(d)) + d
	}
}
