package redact

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"remit835/pkg/contracts/domain"
)

func TestString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"SMITH", "XXXXX"},
		{"SMITH, JOHN", "XXXXX, XXXX"},
		{"123-45-6789", "111-11-1111"},
		{"A1B2", "X1X1"},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, String(tc.in), tc.in)
	}
}

func TestSegmentMasksPatientNM1(t *testing.T) {
	got := Segment("NM1*QC*1*SMITH*JOHN****MI*MBR123", '*')
	assert.Equal(t, "NM1*QC*1*XXXXX*XXXX****MI*XXX111", got)
}

func TestSegmentMasksSSNRef(t *testing.T) {
	assert.Equal(t, "REF*SY*111111111", Segment("REF*SY*123456789", '*'))
	assert.Equal(t, "REF*1W*XX-1111", Segment("REF*1W*AB-1234", '*'))
}

func TestSegmentLeavesOtherSegmentsAlone(t *testing.T) {
	seg := "CLP*2565914*1*450*300*50*MC*CLAIM001"
	assert.Equal(t, seg, Segment(seg, '*'))
	assert.Equal(t, "REF*6R*LINE1", Segment("REF*6R*LINE1", '*'))
	// Payer and provider names are not patient identity.
	assert.Equal(t, "NM1*PR*2*ACME HEALTH", Segment("NM1*PR*2*ACME HEALTH", '*'))
}

func TestRowMasksIdentityColumns(t *testing.T) {
	row := domain.Row{
		domain.ColPatientLastName: "SMITH",
		domain.ColClaimSSN:        "123456789",
		domain.ColClaimNumber:     "2565914",
		domain.ColPayerName:       "ACME HEALTH PLAN",
	}
	masked := Row(row)
	assert.Equal(t, "XXXXX", masked[domain.ColPatientLastName])
	assert.Equal(t, "111111111", masked[domain.ColClaimSSN])
	assert.Equal(t, "2565914", masked[domain.ColClaimNumber])
	assert.Equal(t, "ACME HEALTH PLAN", masked[domain.ColPayerName])
	// Source row untouched.
	assert.Equal(t, "SMITH", row[domain.ColPatientLastName])
}

func TestIsCurrencyColumn(t *testing.T) {
	assert.True(t, IsCurrencyColumn(domain.ColClaimCharge))
	assert.True(t, IsCurrencyColumn(domain.ColSVCPaymentAmount))
	assert.True(t, IsCurrencyColumn(domain.ColContractual))
	assert.True(t, IsCurrencyColumn(domain.ColFHOONFinal))
	assert.False(t, IsCurrencyColumn(domain.ColSVCUnits))
	assert.False(t, IsCurrencyColumn(domain.ColClaimOccurrence))
	assert.False(t, IsCurrencyColumn(domain.ColPatientLastName))
}

func TestIsDateColumn(t *testing.T) {
	assert.True(t, IsDateColumn(domain.ColClaimStartDate))
	assert.True(t, IsDateColumn(domain.ColISADate))
	assert.True(t, IsDateColumn(domain.ColCheckEffectiveDate))
	assert.False(t, IsDateColumn(domain.ColISATime))
	assert.False(t, IsDateColumn(domain.ColPayerName))
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1234.56", "$1,234.56"},
		{"-500", "-$500.00"},
		{"0", "$0.00"},
		{"1234567.8", "$1,234,567.80"},
		{"$1,200", "$1,200.00"},
		{"", ""},
		{"N/A", "N/A"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatCurrency(tc.in), tc.in)
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"20240115", "01/15/2024"},
		{"240115", "01/15/2024"},
		{"2024-01-15", "01/15/2024"},
		{"20240101-20240131", "01/01/2024-01/31/2024"},
		{"not a date", ""},
		{"", ""},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatDate(tc.in), tc.in)
	}
}

func TestNormalizeValue(t *testing.T) {
	assert.Equal(t, "ACME HEALTH", NormalizeValue(domain.ColPayerName, "  acme\t health "))
	assert.Equal(t, "$450.00", NormalizeValue(domain.ColClaimCharge, "450"))
	assert.Equal(t, "01/15/2024", NormalizeValue(domain.ColClaimStartDate, "20240115"))
	assert.Equal(t, "", NormalizeValue(domain.ColPayerName, "   "))
}

func TestNormalizeValueStripsControlCharacters(t *testing.T) {
	assert.Equal(t, "ACMEHEALTH", NormalizeValue(domain.ColPayerName, "acme\x00\x1fhealth\x7f"))
	assert.Equal(t, "A B", NormalizeValue(domain.ColPayerName, "a\x0b \x0cb"))
}

func TestNormalizeRow(t *testing.T) {
	row := domain.Row{
		domain.ColPayerName:   "acme health plan",
		domain.ColClaimCharge: "450",
		domain.ColSVCUnits:    "8",
	}
	got := NormalizeRow(row)
	assert.Equal(t, "ACME HEALTH PLAN", got[domain.ColPayerName])
	assert.Equal(t, "$450.00", got[domain.ColClaimCharge])
	assert.Equal(t, "8", got[domain.ColSVCUnits])
}
