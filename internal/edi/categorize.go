package edi

import "fmt"

// CARC sets driving bucket routing. Codes are compared after payer
// normalization, so "045" and "45" land in the same bucket.
var (
	deductibleCARCs  = carcSet("1", "37", "66", "168", "247")
	coinsuranceCARCs = carcSet("2", "248")
	copayCARCs       = carcSet("3", "36")
	sequesterCARCs   = carcSet("217", "253")
	qmbCARCs         = carcSet("303")
	nonCoveredCARCs  = carcSet(
		"48", "49", "50", "53", "54", "78", "96", "109", "111", "167",
		"202", "204", "212", "219", "258", "269", "293", "295", "B1", "D25",
	)
	cobCARCs = carcSet(
		"19", "20", "21", "22", "23", "89", "90", "92", "129", "136",
		"191", "201", "213", "214", "275", "276", "277", "282", "300",
		"304", "305", "A3", "B13", "B15", "B20",
		"P2", "P3", "P4", "P12", "P13", "P15", "P16", "P21", "P22",
	)
	// New York HCRA surcharge codes arrive with payer-specific group usage;
	// none are nationally assigned, so the set stays empty until a payer
	// entry declares them.
	hcraCARCs = carcSet()
)

func carcSet(codes ...string) map[string]bool {
	set := make(map[string]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

// Buckets is the categorized view of one adjustment list. Amounts keep the
// sign carried on the CAS segment.
type Buckets struct {
	Contractual      float64
	Copay            float64
	Coinsurance      float64
	Deductible       float64
	Denied           float64
	OtherAdjustments float64
	Sequestration    float64
	COB              float64
	HCRA             float64
	QMB              float64
	PRNonCovered     float64
	OtherPatientResp float64
	AuditFlags       []string
}

// Total returns the sum across every bucket.
func (b Buckets) Total() float64 {
	return b.Contractual + b.Copay + b.Coinsurance + b.Deductible +
		b.Denied + b.OtherAdjustments + b.Sequestration + b.COB +
		b.HCRA + b.QMB + b.PRNonCovered + b.OtherPatientResp
}

// Categorize routes CAS adjustments into payment buckets by group code and
// CARC. Zero-amount adjustments contribute nothing.
func Categorize(adjustments []Adjustment) Buckets {
	var b Buckets
	for _, adj := range adjustments {
		if adj.Amount == 0 {
			continue
		}
		b.route(adj)
	}
	return b
}

func (b *Buckets) route(adj Adjustment) {
	amt := adj.Amount
	carc := adj.Reason

	switch adj.Group {
	case "NC":
		// Non-covered charge groups land on the patient.
		b.PRNonCovered += amt
	case "MA":
		// Medicare secondary payer adjustments resolve as COB unless a
		// carve-out CARC says otherwise.
		switch {
		case qmbCARCs[carc]:
			b.QMB += amt
		case cobCARCs[carc]:
			b.COB += amt
		case sequesterCARCs[carc]:
			b.Sequestration += amt
		default:
			b.OtherAdjustments += amt
		}
	case "CO":
		switch {
		case sequesterCARCs[carc]:
			b.Sequestration += amt
		case qmbCARCs[carc]:
			b.QMB += amt
		default:
			b.Contractual += amt
			if cobCARCs[carc] {
				b.AuditFlags = append(b.AuditFlags, fmt.Sprintf(
					"CO-%s: Dictionary suggests COB but payer declared CO (Contractual)", carc))
			}
		}
	case "PR":
		switch {
		case deductibleCARCs[carc]:
			b.Deductible += amt
		case coinsuranceCARCs[carc]:
			b.Coinsurance += amt
		case copayCARCs[carc]:
			b.Copay += amt
		case nonCoveredCARCs[carc]:
			b.PRNonCovered += amt
		default:
			b.OtherPatientResp += amt
		}
	case "OA":
		switch {
		case sequesterCARCs[carc]:
			b.Sequestration += amt
		case qmbCARCs[carc]:
			b.QMB += amt
			b.AuditFlags = append(b.AuditFlags, fmt.Sprintf(
				"OA-%s: QMB CARC expected with CO group", carc))
		case hcraCARCs[carc]:
			b.HCRA += amt
		case cobCARCs[carc]:
			b.COB += amt
		default:
			b.OtherAdjustments += amt
		}
	case "PI":
		if nonCoveredCARCs[carc] {
			b.Denied += amt
		} else {
			b.OtherAdjustments += amt
		}
	default:
		// CR reversals and unknown groups fall back to pure CARC routing.
		switch {
		case deductibleCARCs[carc]:
			b.Deductible += amt
		case coinsuranceCARCs[carc]:
			b.Coinsurance += amt
		case copayCARCs[carc]:
			b.Copay += amt
		case sequesterCARCs[carc]:
			b.Sequestration += amt
		case qmbCARCs[carc]:
			b.QMB += amt
		case cobCARCs[carc]:
			b.COB += amt
		case nonCoveredCARCs[carc]:
			b.Denied += amt
		default:
			b.OtherAdjustments += amt
		}
	}
}
