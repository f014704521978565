package enrich

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "remit835/internal/errors"
)

// ratePlaceholders are spreadsheet values that mean "no rate".
var ratePlaceholders = map[string]bool{
	"undefined": true, "null": true, "none": true,
	"n/a": true, "na": true, "error": true,
}

type rateKey struct {
	zip   string
	hcpcs string
}

type rateRange struct {
	start time.Time
	end   time.Time
	oon   *float64
	in    *float64
}

// RateTable holds Fair Health benchmark rates keyed by pickup ZIP and HCPCS
// code. Daily entries are consolidated into date ranges; the latest range
// doubles as the current rate.
type RateTable struct {
	ranges map[rateKey][]rateRange

	RowsProcessed int
	RowsSkipped   int
}

// LoadRates reads a Fair Health RATES workbook. Columns are located by
// header text on the first sheet; rows without a usable ZIP, HCPCS or at
// least one rate are skipped.
func LoadRates(path string) (*RateTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewEnrichmentError("open rates workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewEnrichmentError("rates workbook has no sheets", nil).
			WithContext("path", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewEnrichmentError("read rates sheet", err).
			WithContext("path", path).WithContext("sheet", sheets[0])
	}
	if len(rows) < 2 {
		return &RateTable{ranges: map[rateKey][]rateRange{}}, nil
	}

	zipIdx, dateIdx, hcpcsIdx, oonIdx, inIdx := -1, -1, -1, -1, -1
	for i, header := range rows[0] {
		h := strings.ToLower(strings.TrimSpace(header))
		switch {
		case strings.Contains(h, "location") && strings.Contains(h, "medical care"):
			zipIdx = i
		case strings.Contains(h, "date") && strings.Contains(h, "gmt"):
			dateIdx = i
		case strings.Contains(h, "procedure code") || strings.Contains(h, "keyword"):
			hcpcsIdx = i
		case strings.Contains(h, "out of network"):
			oonIdx = i
		case strings.Contains(h, "in-network") || strings.Contains(h, "in network"):
			inIdx = i
		}
	}
	if zipIdx < 0 || hcpcsIdx < 0 || (oonIdx < 0 && inIdx < 0) {
		return nil, apperrors.NewEnrichmentError("rates sheet headers not recognized", nil).
			WithContext("path", path)
	}

	type entry struct {
		date time.Time
		oon  *float64
		in   *float64
	}
	raw := map[rateKey][]entry{}
	table := &RateTable{ranges: map[rateKey][]rateRange{}}

	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	for _, row := range rows[1:] {
		table.RowsProcessed++
		zip := NormalizeZIP(cell(row, zipIdx))
		hcpcs := NormalizeHCPCS(cell(row, hcpcsIdx))
		oon := NormalizeRate(cell(row, oonIdx))
		in := NormalizeRate(cell(row, inIdx))
		if zip == "" || hcpcs == "" || (oon == nil && in == nil) {
			table.RowsSkipped++
			continue
		}
		key := rateKey{zip: zip, hcpcs: hcpcs}
		raw[key] = append(raw[key], entry{
			date: parseRateDate(cell(row, dateIdx)),
			oon:  oon,
			in:   in,
		})
	}

	for key, entries := range raw {
		sort.Slice(entries, func(i, j int) bool { return entries[i].date.Before(entries[j].date) })
		var ranges []rateRange
		for _, e := range entries {
			n := len(ranges)
			if n > 0 && sameRate(ranges[n-1].oon, e.oon) && sameRate(ranges[n-1].in, e.in) &&
				!e.date.After(ranges[n-1].end.AddDate(0, 0, 1)) {
				ranges[n-1].end = e.date
				continue
			}
			ranges = append(ranges, rateRange{start: e.date, end: e.date, oon: e.oon, in: e.in})
		}
		table.ranges[key] = ranges
	}
	return table, nil
}

func sameRate(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Lookup returns the out-of-network and in-network rates for a pickup ZIP
// and HCPCS code. With a service date the matching range wins, then the
// latest range ending before the date; without a date (or with no earlier
// range) the current rates apply.
func (t *RateTable) Lookup(zip, hcpcs string, serviceDate time.Time, haveDate bool) (oon, in *float64, ok bool) {
	key := rateKey{zip: NormalizeZIP(zip), hcpcs: NormalizeHCPCS(hcpcs)}
	ranges := t.ranges[key]
	if len(ranges) == 0 {
		return nil, nil, false
	}
	if haveDate {
		for _, r := range ranges {
			if !serviceDate.Before(r.start) && !serviceDate.After(r.end) {
				return r.oon, r.in, true
			}
		}
		var latestBefore *rateRange
		for i := range ranges {
			r := &ranges[i]
			if r.end.After(serviceDate) {
				continue
			}
			if latestBefore == nil || r.end.After(latestBefore.end) {
				latestBefore = r
			}
		}
		if latestBefore != nil {
			return latestBefore.oon, latestBefore.in, true
		}
	}
	current := ranges[len(ranges)-1]
	return current.oon, current.in, true
}

// NormalizeHCPCS uppercases a procedure code and strips everything outside
// A-Z0-9. Placeholder values normalize to "".
func NormalizeHCPCS(code string) string {
	s := strings.ToUpper(strings.TrimSpace(code))
	if s == "" || ratePlaceholders[strings.ToLower(s)] {
		return ""
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeRate parses a spreadsheet rate cell, tolerating $ signs and
// thousands separators. Placeholder and non-numeric values return nil.
func NormalizeRate(rate string) *float64 {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(rate))
	if cleaned == "" || ratePlaceholders[strings.ToLower(cleaned)] {
		return nil
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil
	}
	return &v
}

var rateDateLayouts = []string{
	"2006-01-02", "2006-01-02 15:04:05", "2006-01-02T15:04:05Z",
	"01/02/2006", "1/2/2006", "01-02-06", "20060102", "1/2/06",
}

// parseRateDate is forgiving: a cell that does not parse dates the entry
// today so it still lands in the current-rate range.
func parseRateDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range rateDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Now().Truncate(24 * time.Hour)
}
