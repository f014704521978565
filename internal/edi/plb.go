package edi

import (
	"fmt"
	"math"
	"strings"

	"remit835/internal/dictionary"
)

// PLBAdjustment is a single provider-level adjustment: one reason/amount pair
// from a PLB segment.
type PLBAdjustment struct {
	ProviderID  string
	FiscalDate  string
	ReasonCode  string
	ReferenceID string
	AmountRaw   string
	Amount      float64
	// WO recoveries paired with an offsetting 72 return are acknowledgments
	// of money already repaid and are excluded from the adjustment total.
	IsRefundAck bool
}

// parsePLB expands one PLB segment into its adjustment pairs. Composite C042
// references split into reason code and reference ID on the component
// separator.
func parsePLB(seg Segment, component byte) []PLBAdjustment {
	providerID := seg.Get(1)
	fiscalDate := seg.Get(2)

	var out []PLBAdjustment
	for pos := 3; pos+1 < seg.Len(); pos += 2 {
		composite := seg.Get(pos)
		amountRaw := seg.Get(pos + 1)
		if composite == "" && amountRaw == "" {
			continue
		}
		reason := composite
		ref := ""
		if idx := strings.IndexByte(composite, component); idx >= 0 {
			reason = composite[:idx]
			ref = composite[idx+1:]
		}
		out = append(out, PLBAdjustment{
			ProviderID:  providerID,
			FiscalDate:  fiscalDate,
			ReasonCode:  reason,
			ReferenceID: ref,
			AmountRaw:   amountRaw,
			Amount:      parseAmount(amountRaw),
		})
	}
	return out
}

// markRefundAcks pairs WO overpayment recoveries with 72 authorized returns
// that net to zero. Each WO consumes at most one 72.
func markRefundAcks(adjs []PLBAdjustment) {
	for i := range adjs {
		if adjs[i].ReasonCode != "WO" || adjs[i].IsRefundAck {
			continue
		}
		for j := range adjs {
			if adjs[j].ReasonCode != "72" || adjs[j].IsRefundAck {
				continue
			}
			if math.Abs(adjs[i].Amount+adjs[j].Amount) < 0.01 {
				adjs[i].IsRefundAck = true
				adjs[j].IsRefundAck = true
				break
			}
		}
	}
}

// plbTotal sums adjustment amounts excluding refund acknowledgments.
func plbTotal(adjs []PLBAdjustment) float64 {
	var total float64
	for _, adj := range adjs {
		if adj.IsRefundAck {
			continue
		}
		total += adj.Amount
	}
	return roundCents(total)
}

// plbDetails renders a human-readable adjustment summary. Entries missing a
// reason code or amount are skipped.
func plbDetails(adjs []PLBAdjustment) string {
	var parts []string
	for _, adj := range adjs {
		if adj.ReasonCode == "" || adj.AmountRaw == "" {
			continue
		}
		entry := fmt.Sprintf("%s %s: %s", adj.ProviderID, adj.FiscalDate, adj.ReasonCode)
		if desc := dictionary.PLBReason(adj.ReasonCode); desc != "" {
			entry += fmt.Sprintf(" (%s)", desc)
		}
		if adj.ReferenceID != "" {
			entry += "-" + adj.ReferenceID
		}
		entry += fmt.Sprintf(" $%.2f", adj.Amount)
		if adj.IsRefundAck {
			entry += " [REFUND ACK]"
		}
		parts = append(parts, entry)
	}
	return strings.Join(parts, "; ")
}
