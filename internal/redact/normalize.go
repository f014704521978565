package redact

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"remit835/pkg/contracts/domain"
)

var (
	whitespaceRe  = regexp.MustCompile(`\s+`)
	controlCharRe = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)
)

// currencyPatterns classify columns whose values are money. Matching runs on
// the uppercased column name.
var currencyPatterns = []string{
	"AMOUNT", "PAYMENT", "CHARGE", "PAID", "PRICE",
	"CONTRACTUAL", "COPAY", "COINSURANCE", "DEDUCTIBLE",
	"DENIED", "SEQUESTRATION", "COB", "HCRA", "QMB",
	"OTHERADJUSTMENTS", "NONCOVERED", "OTHERRESP",
	"ALLOWED", "INTEREST", "COVERAGE",
	"FH_OUTOFNETWORK", "FH_INNETWORK", "FH_OON", "FH_IN",
	"_FINAL", "_MILES",
}

var currencyExcludePatterns = []string{"UNITS", "UNIT_COUNT", "OCCURRENCE"}

var dateFieldPatterns = []string{
	"INTERCHANGEDATE", "DATE_ENVELOPE_GS", "PAYMENTDATE", "EFFECTIVEDATE",
}

// IsCurrencyColumn reports whether a column name denotes a money value.
func IsCurrencyColumn(name string) bool {
	if name == "" {
		return false
	}
	upper := strings.ToUpper(name)
	for _, exclude := range currencyExcludePatterns {
		if strings.Contains(upper, exclude) {
			return false
		}
	}
	for _, pattern := range currencyPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}

// IsDateColumn reports whether a column name denotes a date value. Every
// DTM-sourced column is a date; time-only columns are excluded.
func IsDateColumn(name string) bool {
	if name == "" {
		return false
	}
	upper := strings.ToUpper(name)
	if strings.Contains(upper, "TIME") && !strings.Contains(upper, "DATE") {
		return false
	}
	if strings.Contains(upper, "_DTM") {
		return true
	}
	for _, known := range dateFieldPatterns {
		if strings.Contains(upper, known) {
			return true
		}
	}
	return false
}

// FormatCurrency renders a numeric string as $X,XXX.XX; negatives carry the
// sign ahead of the dollar sign. Values that do not parse pass through.
func FormatCurrency(value string) string {
	cleaned := strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(value))
	if cleaned == "" {
		return ""
	}
	num, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return value
	}
	if num == 0 {
		return "$0.00"
	}
	sign := ""
	if num < 0 {
		sign = "-"
		num = -num
	}
	return sign + "$" + groupThousands(fmt.Sprintf("%.2f", num))
}

// groupThousands inserts commas into the integer part of a %.2f string.
func groupThousands(s string) string {
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]
	if len(intPart) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	b.WriteString(frac)
	return b.String()
}

// dateLayouts are tried in order against a trimmed candidate value.
var dateLayouts = []struct {
	layout string
	length int
	name   string
}{
	{"20060102", 8, "CCYYMMDD"}, // EDI DTM
	{"060102", 6, "YYMMDD"},     // EDI ISA
	{"2006-01-02", 10, "YYYY-MM-DD"},
	{"01/02/2006", 10, "MM/DD/YYYY"},
	{"01-02-2006", 10, "MM-DD-YYYY"},
	{"01/02/06", 8, "MM/DD/YY"},
	{"2006/01/02", 10, "YYYY/MM/DD"},
}

// FormatDate renders a date value as MM/DD/YYYY. RD8 ranges
// (CCYYMMDD-CCYYMMDD) format both ends. Returns "" when the value is not a
// recognizable date.
func FormatDate(value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}
	if len(text) == 17 && text[8] == '-' {
		start, end := FormatDate(text[:8]), FormatDate(text[9:])
		if start != "" && end != "" {
			return start + "-" + end
		}
	}
	for _, dl := range dateLayouts {
		if len(text) != dl.length {
			continue
		}
		if parsed, err := time.Parse(dl.layout, text); err == nil {
			return parsed.Format("01/02/2006")
		}
	}
	return ""
}

// DetectDateLayout reports the layout name a date value matches. RD8 ranges
// (CCYYMMDD-CCYYMMDD) report as a range when both ends parse.
func DetectDateLayout(value string) (string, bool) {
	text := strings.TrimSpace(value)
	if text == "" {
		return "", false
	}
	if len(text) == 17 && text[8] == '-' {
		if FormatDate(text[:8]) != "" && FormatDate(text[9:]) != "" {
			return "RD8 range", true
		}
	}
	for _, dl := range dateLayouts {
		if len(text) != dl.length {
			continue
		}
		if _, err := time.Parse(dl.layout, text); err == nil {
			return dl.name, true
		}
	}
	return "", false
}

// NormalizeValue cleans one cell: dates to MM/DD/YYYY, currency to
// $X,XXX.XX, everything else uppercased with collapsed whitespace and
// control characters stripped. Classification is by column name, dates
// first so a name containing both DATE and a money word stays a date.
func NormalizeValue(column, value string) string {
	text := strings.TrimSpace(value)
	if text == "" {
		return ""
	}
	if IsDateColumn(column) {
		if formatted := FormatDate(text); formatted != "" {
			return formatted
		}
	}
	if IsCurrencyColumn(column) {
		if formatted := FormatCurrency(text); formatted != "" {
			return formatted
		}
	}
	text = strings.ToUpper(text)
	text = whitespaceRe.ReplaceAllString(text, " ")
	text = controlCharRe.ReplaceAllString(text, "")
	return text
}

// NormalizeRow normalizes every cell of a row in place on a copy.
func NormalizeRow(row domain.Row) domain.Row {
	out := make(domain.Row, len(row))
	for col, value := range row {
		out[col] = NormalizeValue(col, value)
	}
	return out
}

// NormalizeRows normalizes a slice of rows.
func NormalizeRows(rows []domain.Row) []domain.Row {
	out := make([]domain.Row, len(rows))
	for i, row := range rows {
		out[i] = NormalizeRow(row)
	}
	return out
}
