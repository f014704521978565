package edi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plbSegment(raw string) Segment {
	return Segment{Elements: strings.Split(raw, "*")}
}

func TestParsePLBPairs(t *testing.T) {
	seg := plbSegment("PLB*1999999999*20241231*WO:ABC123*25.00*L6*-10.50")
	adjs := parsePLB(seg, ':')
	require.Len(t, adjs, 2)

	assert.Equal(t, "1999999999", adjs[0].ProviderID)
	assert.Equal(t, "20241231", adjs[0].FiscalDate)
	assert.Equal(t, "WO", adjs[0].ReasonCode)
	assert.Equal(t, "ABC123", adjs[0].ReferenceID)
	assert.Equal(t, 25.0, adjs[0].Amount)

	assert.Equal(t, "L6", adjs[1].ReasonCode)
	assert.Equal(t, "", adjs[1].ReferenceID)
	assert.Equal(t, -10.5, adjs[1].Amount)
}

func TestMarkRefundAcks(t *testing.T) {
	adjs := append(
		parsePLB(plbSegment("PLB*199*20241231*WO:A*25.00*WO:B*40.00"), ':'),
		parsePLB(plbSegment("PLB*199*20241231*72:A*-25.00*FB*5.00"), ':')...,
	)
	markRefundAcks(adjs)

	assert.True(t, adjs[0].IsRefundAck, "WO matched to offsetting 72")
	assert.False(t, adjs[1].IsRefundAck, "WO without offset stays")
	assert.True(t, adjs[2].IsRefundAck)
	assert.False(t, adjs[3].IsRefundAck)

	// Acknowledged pairs drop out of the total: 40.00 + 5.00.
	assert.Equal(t, 45.0, plbTotal(adjs))
}

func TestPLBDetails(t *testing.T) {
	adjs := parsePLB(plbSegment("PLB*199*20241231*WO:A*25.00*72:A*-25.00"), ':')
	markRefundAcks(adjs)
	details := plbDetails(adjs)

	assert.Contains(t, details, "199 20241231: WO")
	assert.Contains(t, details, "-A $25.00")
	assert.Contains(t, details, "[REFUND ACK]")
	assert.Contains(t, details, "; ")
}

func TestPLBDetailsSkipsIncompleteEntries(t *testing.T) {
	seg := plbSegment("PLB*199*20241231*:REFONLY*10.00*CS*")
	adjs := parsePLB(seg, ':')
	details := plbDetails(adjs)
	assert.Empty(t, details)
}

func TestMoneyRounding(t *testing.T) {
	assert.Equal(t, "10.01", money(10.006))
	assert.Equal(t, "-10.01", money(-10.006))
	assert.Equal(t, "2.34", money(2.344))
	assert.Equal(t, "0.00", money(0))
}
