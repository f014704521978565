// Package edi parses X12 835 healthcare claim payment interchanges into
// consolidated output rows. Delimiters come from the fixed-width ISA header,
// segments are replayed through a transaction state machine, and every
// service line (or service-less claim) becomes one domain.Row.
package edi

import (
	"strings"

	"remit835/internal/config"
	apperrors "remit835/internal/errors"
)

// Delimiters holds the separators declared by the ISA header.
type Delimiters struct {
	Element    byte
	Component  byte
	Terminator byte
}

// Segment is a single X12 segment split into elements. Elements[0] is the
// segment identifier (ISA, CLP, SVC, ...).
type Segment struct {
	Elements []string
}

// ID returns the segment identifier, or "" for a degenerate segment.
func (s Segment) ID() string {
	if len(s.Elements) == 0 {
		return ""
	}
	return s.Elements[0]
}

// Get returns element n (1-based, matching X12 position numbering) with
// surrounding whitespace trimmed, or "" when the segment is too short.
func (s Segment) Get(n int) string {
	if n < 0 || n >= len(s.Elements) {
		return ""
	}
	return strings.TrimSpace(s.Elements[n])
}

// Len returns the number of elements including the identifier.
func (s Segment) Len() int {
	return len(s.Elements)
}

// ISA is the interchange control header.
type ISA struct {
	AuthQualifier     string
	AuthInfo          string
	SecurityQualifier string
	SecurityInfo      string
	SenderQualifier   string
	SenderID          string
	ReceiverQualifier string
	ReceiverID        string
	Date              string
	Time              string
	Repetition        string
	Version           string
	ControlNumber     string
	AckRequested      string
	UsageIndicator    string
	ComponentSep      string
}

// GS is the functional group header.
type GS struct {
	FunctionalCode string
	SenderCode     string
	ReceiverCode   string
	Date           string
	Time           string
	ControlNumber  string
	Agency         string
	Version        string
}

// Interchange is a parsed 835 file: envelope headers plus the raw segment
// stream for the state machine.
type Interchange struct {
	Filename string
	Delims   Delimiters
	ISA      ISA
	GS       GS
	Segments []Segment
}

// ParseInterchange splits raw 835 content into segments using the delimiters
// declared in the fixed-width ISA header. Content shorter than the minimum
// interchange length or not starting with "ISA" is rejected.
func ParseInterchange(filename string, data []byte) (*Interchange, error) {
	content := strings.TrimRight(string(data), " \t\r\n\x00")
	if len(content) < config.MinInterchangeLength {
		return nil, apperrors.NewParsingError(
			"interchange shorter than fixed-width ISA header", nil).
			WithContext("filename", filename).
			WithContext("length", len(content))
	}
	if !strings.HasPrefix(content, "ISA") {
		return nil, apperrors.NewParsingError(
			"content does not start with an ISA segment", nil).
			WithContext("filename", filename)
	}

	delims := Delimiters{
		Element:    content[3],
		Component:  content[104],
		Terminator: content[105],
	}

	// Some payers pad the stream with newlines between segments.
	cleaned := strings.NewReplacer("\r", "", "\n", "").Replace(content)

	var segments []Segment
	for _, raw := range strings.Split(cleaned, string(delims.Terminator)) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		segments = append(segments, Segment{Elements: strings.Split(raw, string(delims.Element))})
	}
	if len(segments) == 0 {
		return nil, apperrors.NewParsingError("no segments after split", nil).
			WithContext("filename", filename)
	}

	inter := &Interchange{
		Filename: filename,
		Delims:   delims,
		Segments: segments,
	}
	inter.ISA = parseISA(segments[0])
	if inter.ISA.ComponentSep != "" {
		inter.Delims.Component = inter.ISA.ComponentSep[0]
	} else if delims.Component == delims.Terminator || delims.Component == delims.Element {
		inter.Delims.Component = ':'
	}
	for _, seg := range segments {
		if seg.ID() == "GS" {
			inter.GS = parseGS(seg)
			break
		}
	}
	return inter, nil
}

func parseISA(seg Segment) ISA {
	return ISA{
		AuthQualifier:     seg.Get(1),
		AuthInfo:          seg.Get(2),
		SecurityQualifier: seg.Get(3),
		SecurityInfo:      seg.Get(4),
		SenderQualifier:   seg.Get(5),
		SenderID:          seg.Get(6),
		ReceiverQualifier: seg.Get(7),
		ReceiverID:        seg.Get(8),
		Date:              seg.Get(9),
		Time:              seg.Get(10),
		Repetition:        seg.Get(11),
		Version:           seg.Get(12),
		ControlNumber:     seg.Get(13),
		AckRequested:      seg.Get(14),
		UsageIndicator:    seg.Get(15),
		ComponentSep:      seg.Get(16),
	}
}

func parseGS(seg Segment) GS {
	return GS{
		FunctionalCode: seg.Get(1),
		SenderCode:     seg.Get(2),
		ReceiverCode:   seg.Get(3),
		Date:           seg.Get(4),
		Time:           seg.Get(5),
		ControlNumber:  seg.Get(6),
		Agency:         seg.Get(7),
		Version:        seg.Get(8),
	}
}
