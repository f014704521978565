package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remit835/internal/edi"
	"remit835/pkg/contracts/domain"
)

func issueMessages(issues []Issue) string {
	var parts []string
	for _, issue := range issues {
		parts = append(parts, issue.Message)
	}
	return strings.Join(parts, "\n")
}

func TestCompletenessFlagsUnmappedData(t *testing.T) {
	res := parse(t, "unmapped.835",
		"GS*HP*PAYERID*RECEIVER*20240115*1200*1*X*005010X221A1",
		"ST*835*0001",
		"BPR*I*100.00*C*ACH",
		"N1*PR*ACME HEALTH PLAN",
		"CLP*100*1*100*100**MC*CTL1*11*1**B",
		"DTM*036*20241231",
		"REF*F8*ORIG123",
		"SE*9*0001",
	)
	result := New().Validate([]*edi.ParseResult{res}, res.Rows)

	_, grouped := result.ByType()
	elements := issueMessages(grouped["UNMAPPED_ELEMENT"])
	assert.Contains(t, elements, "CLP*12")
	qualifiers := issueMessages(grouped["UNMAPPED_QUALIFIER"])
	assert.Contains(t, qualifiers, "DTM qualifier 036")
	assert.Contains(t, qualifiers, "REF qualifier F8")
}

func TestCompletenessSilentOnFullyMappedFile(t *testing.T) {
	res := balancedFile(t)
	result := New().Validate([]*edi.ParseResult{res}, res.Rows)

	_, grouped := result.ByType()
	assert.Empty(t, grouped["UNMAPPED_ELEMENT"], issueMessages(grouped["UNMAPPED_ELEMENT"]))
	assert.Empty(t, grouped["UNMAPPED_QUALIFIER"], issueMessages(grouped["UNMAPPED_QUALIFIER"]))
	assert.Empty(t, grouped["CAS_TRIO"])
	assert.Empty(t, grouped["CAS_CATEGORY"])
}

func TestCompletenessDetectsTamperedCASTrio(t *testing.T) {
	res := balancedFile(t)
	res.Rows[0][domain.ServiceCASColumn(1, "Reason")] = "50"
	result := New().Validate([]*edi.ParseResult{res}, res.Rows)

	require.False(t, result.Passed())
	_, grouped := result.ByType()
	require.NotEmpty(t, grouped["CAS_TRIO"])
	issue := grouped["CAS_TRIO"][0]
	assert.Equal(t, "45", issue.Expected)
	assert.Equal(t, "50", issue.Actual)
	assert.Equal(t, "100200", issue.ClaimID)
}

func TestCompletenessDetectsTamperedBucket(t *testing.T) {
	res := balancedFile(t)
	res.Rows[0][domain.ColContractual] = "0.00"
	result := New().Validate([]*edi.ParseResult{res}, res.Rows)

	require.False(t, result.Passed())
	_, grouped := result.ByType()
	require.NotEmpty(t, grouped["CAS_CATEGORY"])
	issue := grouped["CAS_CATEGORY"][0]
	assert.Equal(t, "60.00", issue.Expected)
	assert.Equal(t, "0.00", issue.Actual)
}

func TestCompletenessReportsMissingRow(t *testing.T) {
	res := balancedFile(t)
	result := New().Validate([]*edi.ParseResult{res}, nil)

	_, grouped := result.ByType()
	require.NotEmpty(t, grouped["CAS_TRIO"])
	assert.Contains(t, grouped["CAS_TRIO"][0].Message, "no output row")
}

func TestDateSurvey(t *testing.T) {
	rows := []domain.Row{
		{domain.ColClaimStartDate: "20240101", domain.ColClaimNumber: "100"},
		{domain.ColClaimStartDate: "01/15/2024", domain.ColClaimNumber: "200"},
		{domain.ColClaimStartDate: "JUNK", domain.ColClaimNumber: "300"},
	}
	result := New().Validate(nil, rows)

	require.NotNil(t, result.DateSurvey)
	byLayout := result.DateSurvey[domain.ColClaimStartDate]
	assert.Equal(t, 1, byLayout["CCYYMMDD"])
	assert.Equal(t, 1, byLayout["MM/DD/YYYY"])

	_, grouped := result.ByType()
	require.Len(t, grouped["DATE_FORMAT"], 1)
	assert.Contains(t, grouped["DATE_FORMAT"][0].Message, `"JUNK" (claim 300)`)
	assert.Contains(t, grouped["DATE_FORMAT"][0].Message, domain.ColClaimStartDate)
}
