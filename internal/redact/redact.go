// Package redact masks protected health information in 835 content and
// normalizes consolidated row values for the CSV artifacts: uppercase text,
// collapsed whitespace, $X,XXX.XX currency and MM/DD/YYYY dates.
package redact

import (
	"strings"
	"unicode"

	"remit835/pkg/contracts/domain"
)

// String masks identifying text: letters become X, digits become 1,
// punctuation and spacing survive so the shape stays recognizable.
func String(text string) string {
	if text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			b.WriteRune('X')
		case unicode.IsDigit(r):
			b.WriteRune('1')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Segment masks the PHI-bearing elements of one raw 835 segment: patient
// and insured NM1 names and IDs, and SSN / member-ID REF values.
func Segment(segment string, elementDelimiter byte) string {
	elements := strings.Split(segment, string(elementDelimiter))
	if len(elements) == 0 {
		return segment
	}
	switch elements[0] {
	case "NM1":
		if len(elements) > 3 && (elements[1] == "IL" || elements[1] == "QC") {
			for i := 3; i < 8 && i < len(elements); i++ {
				elements[i] = String(elements[i])
			}
			if len(elements) > 9 {
				elements[9] = String(elements[9])
			}
		}
	case "REF":
		if len(elements) > 2 && (elements[1] == "SY" || elements[1] == "1W") {
			elements[2] = String(elements[2])
		}
	}
	return strings.Join(elements, string(elementDelimiter))
}

// File masks an entire 835 content stream segment by segment. The segment
// terminator is read from the fixed-width ISA header when present.
func File(content string, elementDelimiter byte) string {
	terminator := byte('~')
	if len(content) > 105 {
		terminator = content[105]
	}
	segments := strings.Split(content, string(terminator))
	var out []string
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		out = append(out, Segment(seg, elementDelimiter))
	}
	return strings.Join(out, string(terminator)) + string(terminator)
}

// rowPHIColumns are the consolidated columns that carry patient identity.
var rowPHIColumns = []string{
	domain.ColPatientLastName,
	domain.ColPatientFirstName,
	domain.ColPatientID,
	domain.ColInsuredLastName,
	domain.ColInsuredFirstName,
	domain.ColInsuredID,
	domain.ColClaimMemberID,
	domain.ColClaimSSN,
}

// Row returns a copy of the row with patient identity columns masked.
func Row(row domain.Row) domain.Row {
	out := row.Clone()
	for _, col := range rowPHIColumns {
		if out[col] != "" {
			out[col] = String(out[col])
		}
	}
	return out
}

// Rows masks a slice of rows.
func Rows(rows []domain.Row) []domain.Row {
	out := make([]domain.Row, len(rows))
	for i, row := range rows {
		out[i] = Row(row)
	}
	return out
}
