// Package payers holds payer-specific overrides for 835 processing.
//
// Some payers deviate from standard X12 behavior in documented ways:
// zero-padded adjustment reason codes, generic payer identifiers,
// reference qualifiers with state-specific meanings, and proprietary
// remark codes. The registry keeps those deviations in one place so the
// parser and validator stay standard-compliant.
package payers

import (
	"strings"

	"remit835/internal/dictionary"
)

// Payer describes one registered payer and its known deviations.
type Payer struct {
	Key         string
	Description string

	// Identification values, in lookup priority order: TRN03
	// originating company identifier, ISA06 interchange sender id,
	// then exact N1*PR payer name match.
	TRN03      []string
	ISA06      []string
	PayerNames []string

	// NormalizeCARC indicates the payer zero-pads adjustment reason
	// codes (e.g. "0012" for "12").
	NormalizeCARC bool

	// AllowGenericPayerID suppresses the validation warning for
	// shared placeholder payer identifiers such as "999999".
	AllowGenericPayerID bool

	// ReferenceQualifiers holds REF01 meanings that differ from the
	// standard code list for this payer.
	ReferenceQualifiers map[string]string

	// PriorityRARCs are payer-specific remark codes worth surfacing.
	PriorityRARCs []string

	Notes []string
}

// registry lists every payer with known overrides. Order matters only
// for deterministic iteration in tests and reports.
var registry = []Payer{
	{
		Key:         "MEDI_CAL",
		Description: "California Medi-Cal (Medicaid) Fiscal Intermediary",
		TRN03:       []string{"1999999999"},
		PayerNames:  []string{"MEDI CAL FISCAL INTERMEDIARY"},
		// Medi-Cal zero-pads reason codes (0012, 015, 034).
		NormalizeCARC:       true,
		AllowGenericPayerID: true,
		ReferenceQualifiers: map[string]string{
			"2U": "Payer Identification Number (Medi-Cal)",
		},
		PriorityRARCs: []string{"N908", "N909", "N910", "N911", "N912", "N913"},
		Notes: []string{
			"Payer ID is generic 999999 in N1*PR",
			"Processed through CERESOFT clearinghouse",
		},
	},
	{
		Key:         "EMEDNY",
		Description: "New York State Medicaid (eMedNY)",
		ISA06:       []string{"EMEDNYBAT"},
		PayerNames:  []string{"NYSDOH", "NY STATE DEPT OF HEALTH"},
		ReferenceQualifiers: map[string]string{
			// REF*9A carries rate codes, not repriced claim references.
			"9A": "eMedNY Rate Code",
		},
		PriorityRARCs: []string{"N426", "N427", "N428", "N429", "N892"},
		Notes: []string{
			"Uses FCN# (Financial Control Number) in PLB segments",
			"Pending claims arrive in a separate supplemental file, not in the 835",
		},
	},
}

// Identify resolves a payer key from interchange values. TRN03 is
// checked first, then ISA06, then the N1*PR payer name. Returns nil
// when no registered payer matches.
func Identify(trn03, isa06, payerName string) *Payer {
	if v := strings.TrimSpace(trn03); v != "" {
		for i := range registry {
			if contains(registry[i].TRN03, v) {
				return &registry[i]
			}
		}
	}

	if v := strings.TrimSpace(isa06); v != "" {
		for i := range registry {
			if contains(registry[i].ISA06, v) {
				return &registry[i]
			}
		}
	}

	if v := strings.ToUpper(strings.TrimSpace(payerName)); v != "" {
		for i := range registry {
			for _, name := range registry[i].PayerNames {
				if strings.ToUpper(name) == v {
					return &registry[i]
				}
			}
		}
	}

	return nil
}

// Lookup returns a registered payer by key.
func Lookup(key string) (*Payer, bool) {
	for i := range registry {
		if registry[i].Key == key {
			return &registry[i], true
		}
	}
	return nil, false
}

// Keys returns all registered payer keys.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for i := range registry {
		keys = append(keys, registry[i].Key)
	}
	return keys
}

// NormalizeCARC strips leading zeros from an adjustment reason code
// when the stripped form is a published code. Codes that are already
// valid, alphanumeric codes, and unknown codes pass through unchanged.
func NormalizeCARC(code string) string {
	if code == "" {
		return code
	}
	if dictionary.IsKnownCARC(code) {
		return code
	}
	stripped := strings.TrimLeft(code, "0")
	if stripped != "" && stripped != code && dictionary.IsKnownCARC(stripped) {
		return stripped
	}
	return code
}

// NormalizeCARCFor applies NormalizeCARC only when the payer is known
// to zero-pad reason codes.
func NormalizeCARCFor(p *Payer, code string) string {
	if p == nil || !p.NormalizeCARC {
		return code
	}
	return NormalizeCARC(code)
}

// ReferenceQualifier returns the payer-specific REF01 meaning when one
// exists, falling back to the standard code list.
func ReferenceQualifier(p *Payer, code string) string {
	if p != nil {
		if desc, ok := p.ReferenceQualifiers[code]; ok {
			return desc
		}
	}
	return dictionary.ReferenceQualifier(code)
}

// IsPriorityRARC reports whether a remark code is flagged for special
// attention for the payer.
func IsPriorityRARC(p *Payer, code string) bool {
	if p == nil {
		return false
	}
	return contains(p.PriorityRARCs, code)
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
