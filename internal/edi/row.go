package edi

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"remit835/internal/dictionary"
	"remit835/internal/payers"
	"remit835/pkg/contracts/domain"
)

// Adjustment is one (group, reason, amount, quantity) entry parsed from a
// CAS segment, with the CARC already payer-normalized.
type Adjustment struct {
	Group     string
	Reason    string
	AmountRaw string
	Amount    float64
	Quantity  string
}

// parseCAS expands a CAS segment into its adjustment trios. A CAS carries up
// to six trios after the group code; trios missing the reason or amount are
// dropped, and non-numeric quantities are blanked.
func parseCAS(seg Segment, payer *payers.Payer) []Adjustment {
	group := seg.Get(1)
	var out []Adjustment
	for pos := 2; pos+1 < seg.Len() && pos <= 17; pos += 3 {
		reason := seg.Get(pos)
		amountRaw := seg.Get(pos + 1)
		if reason == "" || amountRaw == "" {
			continue
		}
		out = append(out, Adjustment{
			Group:     group,
			Reason:    payers.NormalizeCARCFor(payer, reason),
			AmountRaw: amountRaw,
			Amount:    parseAmount(amountRaw),
			Quantity:  numericQuantity(seg.Get(pos + 2)),
		})
	}
	return out
}

// CASAdjustments expands a CAS segment into payer-normalized adjustments.
// Exposed for checks that rebuild adjustments independently of the row
// converter.
func CASAdjustments(seg Segment, payer *payers.Payer) []Adjustment {
	return parseCAS(seg, payer)
}

// numericQuantity keeps a CAS quantity only when it parses as a number.
// Payers occasionally stuff codes into the quantity position.
func numericQuantity(q string) string {
	trimmed := strings.Trim(strings.TrimSpace(q), "-+")
	if trimmed == "" {
		return ""
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return ""
	}
	return q
}

func parseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// roundCents rounds to two decimals with ties away from zero.
func roundCents(v float64) float64 {
	return math.Copysign(math.Floor(math.Abs(v)*100+0.5), v) / 100
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", roundCents(v))
}

// adjustmentSummary renders the trio list plus any categorization audit
// flags into one display string.
func adjustmentSummary(adjs []Adjustment, audits []string) string {
	var parts []string
	for _, adj := range adjs {
		parts = append(parts, fmt.Sprintf("%s-%s: $%.2f", adj.Group, adj.Reason, adj.Amount))
	}
	summary := strings.Join(parts, "; ")
	if len(audits) > 0 {
		if summary != "" {
			summary += " | "
		}
		summary += "AUDIT: " + strings.Join(audits, "; ")
	}
	return summary
}

// buildRow materializes one output row from the transaction base, the claim
// and, when present, the open service line.
func (c *converter) buildRow(claim *claimState, svc *serviceState) domain.Row {
	row := c.base.Clone()

	row[domain.ColClaimNumber] = claim.number
	row[domain.ColRUN] = FormatRUN(claim.number)
	row[domain.ColClaimOccurrence] = strconv.Itoa(claim.occurrence)
	row[domain.ColClaimStatus] = claim.status
	row[domain.ColClaimStatusDesc] = dictionary.ClaimStatus(claim.status)
	row[domain.ColClaimCharge] = claim.charge
	row[domain.ColClaimPayment] = claim.paid
	row[domain.ColClaimPatientResp] = claim.patientResp
	row[domain.ColClaimFilingIndic] = claim.filing
	row[domain.ColClaimFilingDesc] = dictionary.FilingIndicator(claim.filing)
	row[domain.ColClaimPayerControl] = claim.payerCtl
	row[domain.ColClaimFacilityType] = claim.facility
	row[domain.ColClaimFrequencyCode] = claim.frequency
	row[domain.ColClaimFrequencyDesc] = dictionary.ClaimFrequency(claim.frequency)
	row[domain.ColClaimPatientStatus] = claim.patientStatus
	row[domain.ColClaimPatientStatusDesc] = dictionary.DischargeStatus(claim.patientStatus)

	row[domain.ColPatientLastName] = claim.patientLast
	row[domain.ColPatientFirstName] = claim.patientFirst
	row[domain.ColPatientID] = claim.patientID
	row[domain.ColInsuredLastName] = claim.insuredLast
	row[domain.ColInsuredFirstName] = claim.insuredFirst
	row[domain.ColInsuredID] = claim.insuredID
	row[domain.ColRenderingProvider] = claim.renderName
	row[domain.ColRenderingProviderID] = claim.renderID
	row[domain.ColClaimPayerName] = claim.payerName

	effective := claim.payerName
	if effective == "" {
		effective = row[domain.ColPayerName]
	}
	row[domain.ColEffectivePayer] = effective

	row[domain.ColClaimStartDate] = firstOf(claim.dtms, "232", "150", "472")
	row[domain.ColClaimEndDate] = firstOf(claim.dtms, "233", "151")
	row[domain.ColClaimReceivedDate] = claim.dtms["050"]
	row[domain.ColClaimStatementTo] = claim.dtms["435"]

	row[domain.ColClaimCoverageAmount] = claim.amts["AU"]
	row[domain.ColClaimInterestAmount] = claim.amts["I"]
	row[domain.ColClaimPatientPaid] = claim.amts["F5"]

	memberID := claim.refs["1W"]
	if memberID == "" {
		memberID = claim.patientID
	}
	row[domain.ColClaimMemberID] = memberID
	row[domain.ColClaimSSN] = claim.refs["SY"]
	row[domain.ColClaimMRN] = claim.refs["EA"]
	row[domain.ColClaimPayerIDNumber] = claim.refs["2U"]
	row[domain.ColClaimReimburseRate] = claim.moaRate
	row[domain.ColClaimCoveredActual] = claim.qtys["CA"]

	if claim.mia != nil {
		for pos := 1; pos <= domain.MIAElements; pos++ {
			row[domain.MIAColumn(pos)] = claim.mia[pos]
		}
	}

	setRemarks(row, claim.remarks,
		[]string{domain.ColClaimRemark1, domain.ColClaimRemark2, domain.ColClaimRemark3},
		[]string{domain.ColClaimRemarkDesc1, domain.ColClaimRemarkDesc2, domain.ColClaimRemarkDesc3})

	setCASColumns(row, claim.adjustments, domain.ClaimCASColumn)
	claimBuckets := Categorize(claim.adjustments)
	row[domain.ColClaimAdjustSummary] = adjustmentSummary(claim.adjustments, claimBuckets.AuditFlags)

	row[domain.ColAmbPickupName] = claim.pickupName
	row[domain.ColAmbPickupAddr] = claim.pickupAddr
	row[domain.ColAmbPickupCity] = claim.pickupCity
	row[domain.ColAmbPickupState] = claim.pickupState
	row[domain.ColAmbPickupZip] = claim.pickupZip
	row[domain.ColAmbDropoffName] = claim.dropoffName
	row[domain.ColAmbDropoffAddr] = claim.dropoffAddr
	row[domain.ColAmbDropoffCity] = claim.dropoffCity
	row[domain.ColAmbDropoffState] = claim.dropoffState
	row[domain.ColAmbDropoffZip] = claim.dropoffZip

	if svc == nil {
		row[domain.ColSEQ] = fmt.Sprintf("%d-0", claim.occurrence)
		setBuckets(row, claimBuckets, claim.charge, claim.paid)
		return row
	}

	row[domain.ColSEQ] = fmt.Sprintf("%d-%d", claim.occurrence, svc.ordinal)
	row[domain.ColSVCProcedureQualifier] = svc.qualifier
	row[domain.ColSVCProcedureCode] = svc.proc
	row[domain.ColSVCModifier1] = svc.mods[0]
	row[domain.ColSVCModifier2] = svc.mods[1]
	row[domain.ColSVCModifier3] = svc.mods[2]
	row[domain.ColSVCModifier4] = svc.mods[3]
	row[domain.ColSVCChargeAmount] = svc.charge
	row[domain.ColSVCPaymentAmount] = svc.paid
	row[domain.ColSVCUnits] = svc.units
	row[domain.ColSVCOriginalProcedure] = svc.origProc
	row[domain.ColSVCOriginalUnits] = svc.origUnits

	start := firstOf(svc.dtms, "150", "472")
	if start == "" {
		start = claim.dtms["232"]
	}
	row[domain.ColSVCStartDate] = start
	row[domain.ColSVCEndDate] = svc.dtms["151"]
	row[domain.ColSVCAllowedAmount] = svc.amts["B6"]
	row[domain.ColSVCLineControlNumber] = svc.refs["6R"]
	row[domain.ColSVCPatientCount] = svc.qtys["PT"]
	row[domain.ColSVCCoveredActual] = svc.qtys["CA"]

	setRemarks(row, svc.remarks,
		[]string{domain.ColSVCRemark1, domain.ColSVCRemark2, domain.ColSVCRemark3},
		[]string{domain.ColSVCRemarkDesc1, domain.ColSVCRemarkDesc2, domain.ColSVCRemarkDesc3})

	setCASColumns(row, svc.adjustments, domain.ServiceCASColumn)
	svcBuckets := Categorize(svc.adjustments)
	row[domain.ColSVCAdjustSummary] = adjustmentSummary(svc.adjustments, svcBuckets.AuditFlags)
	setBuckets(row, svcBuckets, svc.charge, svc.paid)
	return row
}

func firstOf(m map[string]string, keys ...string) string {
	for _, k := range keys {
		if v := m[k]; v != "" {
			return v
		}
	}
	return ""
}

func setRemarks(row domain.Row, codes []string, codeCols, descCols []string) {
	for i := 0; i < len(codeCols) && i < len(codes); i++ {
		row[codeCols[i]] = codes[i]
		row[descCols[i]] = dictionary.RARC(codes[i])
	}
}

func setCASColumns(row domain.Row, adjs []Adjustment, column func(int, string) string) {
	for i := 1; i <= domain.CASTrios; i++ {
		var adj Adjustment
		if i-1 < len(adjs) {
			adj = adjs[i-1]
		}
		row[column(i, "Group")] = adj.Group
		row[column(i, "Reason")] = adj.Reason
		row[column(i, "Amount")] = adj.AmountRaw
		row[column(i, "Quantity")] = adj.Quantity
	}
}

// setBuckets writes the categorized amounts plus the derived allowed figures
// for the row's charge/payment pair.
func setBuckets(row domain.Row, b Buckets, chargeRaw, paidRaw string) {
	row[domain.ColContractual] = money(b.Contractual)
	row[domain.ColDeductible] = money(b.Deductible)
	row[domain.ColCoinsurance] = money(b.Coinsurance)
	row[domain.ColCopay] = money(b.Copay)
	row[domain.ColDenied] = money(b.Denied)
	row[domain.ColCOB] = money(b.COB)
	row[domain.ColSequestration] = money(b.Sequestration)
	row[domain.ColHCRA] = money(b.HCRA)
	row[domain.ColQMB] = money(b.QMB)
	row[domain.ColOtherAdjustments] = money(b.OtherAdjustments)
	row[domain.ColPatientNonCovered] = money(b.PRNonCovered)
	row[domain.ColPatientOtherResp] = money(b.OtherPatientResp)

	charge := parseAmount(chargeRaw)
	paid := parseAmount(paidRaw)
	allowed := charge - b.Contractual - b.COB - b.Sequestration - b.HCRA -
		b.OtherAdjustments - b.Denied - b.QMB
	verify := paid + b.Deductible + b.Coinsurance + b.Copay +
		b.PRNonCovered + b.OtherPatientResp
	row[domain.ColAllowedAmount] = money(allowed)
	row[domain.ColAllowedVerify] = money(verify)
}
