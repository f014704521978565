package payers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	tests := []struct {
		name      string
		trn03     string
		isa06     string
		payerName string
		wantKey   string
	}{
		{
			name:    "medi-cal by trn03",
			trn03:   "1999999999",
			wantKey: "MEDI_CAL",
		},
		{
			name:      "medi-cal by payer name",
			payerName: "MEDI CAL FISCAL INTERMEDIARY",
			wantKey:   "MEDI_CAL",
		},
		{
			name:      "medi-cal payer name case insensitive",
			payerName: "medi cal fiscal intermediary",
			wantKey:   "MEDI_CAL",
		},
		{
			name:    "emedny by isa06",
			isa06:   "EMEDNYBAT",
			wantKey: "EMEDNY",
		},
		{
			name:      "emedny by payer name",
			payerName: "NYSDOH",
			wantKey:   "EMEDNY",
		},
		{
			name:    "trn03 wins over isa06",
			trn03:   "1999999999",
			isa06:   "EMEDNYBAT",
			wantKey: "MEDI_CAL",
		},
		{
			name:      "unknown payer",
			trn03:     "9999999999",
			payerName: "UNKNOWN PAYER",
			wantKey:   "",
		},
		{
			name:    "whitespace trimmed",
			trn03:   "  1999999999  ",
			wantKey: "MEDI_CAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Identify(tt.trn03, tt.isa06, tt.payerName)
			if tt.wantKey == "" {
				assert.Nil(t, p)
				return
			}
			require.NotNil(t, p)
			assert.Equal(t, tt.wantKey, p.Key)
		})
	}
}

func TestLookup(t *testing.T) {
	p, ok := Lookup("EMEDNY")
	require.True(t, ok)
	assert.Equal(t, "New York State Medicaid (eMedNY)", p.Description)

	_, ok = Lookup("AETNA")
	assert.False(t, ok)
}

func TestKeys(t *testing.T) {
	assert.Equal(t, []string{"MEDI_CAL", "EMEDNY"}, Keys())
}

func TestNormalizeCARC(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{code: "0012", want: "12"},
		{code: "034", want: "34"},
		{code: "015", want: "15"},
		{code: "45", want: "45"},
		{code: "A1", want: "A1"},
		{code: "0000", want: "0000"},
		{code: "", want: ""},
		{code: "0999", want: "0999"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCARC(tt.code))
		})
	}
}

func TestNormalizeCARCFor(t *testing.T) {
	mediCal, ok := Lookup("MEDI_CAL")
	require.True(t, ok)
	emedny, ok := Lookup("EMEDNY")
	require.True(t, ok)

	assert.Equal(t, "12", NormalizeCARCFor(mediCal, "0012"))
	assert.Equal(t, "0012", NormalizeCARCFor(emedny, "0012"), "eMedNY does not zero-pad")
	assert.Equal(t, "0012", NormalizeCARCFor(nil, "0012"))
}

func TestReferenceQualifier(t *testing.T) {
	mediCal, _ := Lookup("MEDI_CAL")
	emedny, _ := Lookup("EMEDNY")

	assert.Equal(t, "Payer Identification Number (Medi-Cal)", ReferenceQualifier(mediCal, "2U"))
	assert.Equal(t, "eMedNY Rate Code", ReferenceQualifier(emedny, "9A"))
	assert.Equal(t, "Repriced Claim Reference Number", ReferenceQualifier(mediCal, "9A"))
	assert.Equal(t, "Repriced Claim Reference Number", ReferenceQualifier(nil, "9A"))
}

func TestIsPriorityRARC(t *testing.T) {
	mediCal, _ := Lookup("MEDI_CAL")
	emedny, _ := Lookup("EMEDNY")

	assert.True(t, IsPriorityRARC(mediCal, "N908"))
	assert.True(t, IsPriorityRARC(emedny, "N892"))
	assert.False(t, IsPriorityRARC(mediCal, "N426"))
	assert.False(t, IsPriorityRARC(nil, "N426"))
}
