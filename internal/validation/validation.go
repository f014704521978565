// Package validation implements the zero-fail checks on parsed 835 data:
// interchange, claim and service balancing, predetermination rules,
// dictionary gap tracking and duplicate claim detection. It also surveys
// completeness: segment data with no output column, CAS adjustments against
// the emitted trio and bucket columns, and date layouts per column. A run
// passes only with zero errors.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"remit835/internal/dictionary"
	"remit835/internal/edi"
	"remit835/pkg/contracts/domain"
)

// Tolerance is the balancing slack in dollars. EDI amounts are 2dp; a cent
// of drift comes from payer-side rounding, anything more is an error.
const Tolerance = 0.01

// Severity classifies an issue.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// Issue is a single validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	File     string   `json:"file,omitempty"`
	ClaimID  string   `json:"claim_id,omitempty"`
	Expected string   `json:"expected,omitempty"`
	Actual   string   `json:"actual,omitempty"`
}

func (i Issue) String() string {
	var b strings.Builder
	b.WriteString(string(i.Severity))
	b.WriteString(" [")
	b.WriteString(i.Type)
	b.WriteString("] ")
	b.WriteString(i.Message)
	if i.ClaimID != "" {
		fmt.Fprintf(&b, " (claim %s)", i.ClaimID)
	}
	if i.Expected != "" || i.Actual != "" {
		fmt.Fprintf(&b, " expected=%s actual=%s", i.Expected, i.Actual)
	}
	return b.String()
}

// Result aggregates findings across a run. DateSurvey counts, per date
// column, how many values matched each recognized layout.
type Result struct {
	Issues        []Issue                   `json:"issues"`
	FilesChecked  int                       `json:"files_checked"`
	ClaimsChecked int                       `json:"claims_checked"`
	LinesChecked  int                       `json:"lines_checked"`
	RowCount      int                       `json:"row_count"`
	DateSurvey    map[string]map[string]int `json:"date_survey,omitempty"`
}

// Passed reports zero-fail success: no errors of any type.
func (r *Result) Passed() bool {
	return r.ErrorCount() == 0
}

// ErrorCount returns the number of error-severity issues.
func (r *Result) ErrorCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-severity issues.
func (r *Result) WarningCount() int {
	return len(r.Issues) - r.ErrorCount()
}

func (r *Result) add(issue Issue) {
	r.Issues = append(r.Issues, issue)
}

// ByType groups issues per type preserving first-seen type order.
func (r *Result) ByType() ([]string, map[string][]Issue) {
	grouped := map[string][]Issue{}
	var order []string
	for _, issue := range r.Issues {
		if _, seen := grouped[issue.Type]; !seen {
			order = append(order, issue.Type)
		}
		grouped[issue.Type] = append(grouped[issue.Type], issue)
	}
	return order, grouped
}

// Validator runs the zero-fail validation suite.
type Validator struct{}

// New returns a Validator.
func New() *Validator {
	return &Validator{}
}

// Validate checks every parsed file and the consolidated row set.
func (v *Validator) Validate(results []*edi.ParseResult, rows []domain.Row) *Result {
	out := &Result{RowCount: len(rows)}
	tracker := newPresenceTracker()
	index := indexRows(rows)
	for _, res := range results {
		v.validateFile(res, out)
		v.validateCAS(res, index, out)
		tracker.trackFile(res.Interchange)
	}
	tracker.report(out)
	v.validateRows(rows, out)
	v.surveyDates(rows, out)
	return out
}

// balanceTxn is the per-transaction view rebuilt from the segment stream
// for balancing; it is independent of the row converter on purpose so a
// converter bug cannot hide an imbalance.
type balanceTxn struct {
	checkAmount   float64
	paymentMethod string
	claims        []*balanceClaim
	plbTotal      float64
}

type balanceClaim struct {
	id       string
	status   string
	charge   float64
	paid     float64
	casTotal float64
	services []*balanceService
}

type balanceService struct {
	proc     string
	charge   float64
	paid     float64
	casTotal float64
	start    string
	end      string
}

func (v *Validator) validateFile(res *edi.ParseResult, out *Result) {
	out.FilesChecked++
	file := res.Interchange.Filename
	txns := collectTransactions(res.Interchange)

	seenClaims := map[string]int{}
	for _, txn := range txns {
		var claimPaidSum float64
		for _, claim := range txn.claims {
			out.ClaimsChecked++
			claimPaidSum += claim.paid
			seenClaims[claim.id]++
			v.validateClaim(file, claim, out)
		}
		// Zero-dollar notification transactions carry no payment to balance.
		if txn.paymentMethod == "NON" && math.Abs(txn.checkAmount) <= Tolerance {
			continue
		}
		expected := claimPaidSum - txn.plbTotal
		if math.Abs(txn.checkAmount-expected) > Tolerance {
			out.add(Issue{
				Severity: SeverityError,
				Type:     "CHECK_BALANCE",
				Message:  "BPR02 does not equal claim payments minus provider adjustments",
				File:     file,
				Expected: fmt.Sprintf("%.2f", expected),
				Actual:   fmt.Sprintf("%.2f", txn.checkAmount),
			})
		}
	}

	for id, count := range seenClaims {
		if count > 1 {
			out.add(Issue{
				Severity: SeverityWarning,
				Type:     "DUPLICATE_CLAIM",
				Message:  fmt.Sprintf("claim appears %d times in file", count),
				File:     file,
				ClaimID:  id,
			})
		}
	}
}

func (v *Validator) validateClaim(file string, claim *balanceClaim, out *Result) {
	casTotal := claim.casTotal
	var svcCharge, svcPaid float64
	for _, svc := range claim.services {
		out.LinesChecked++
		casTotal += svc.casTotal
		svcCharge += svc.charge
		svcPaid += svc.paid
		v.validateService(file, claim.id, svc, out)
	}

	if math.Abs(claim.charge-casTotal-claim.paid) > Tolerance {
		out.add(Issue{
			Severity: SeverityError,
			Type:     "CLAIM_BALANCE",
			Message:  "CLP03 minus CAS adjustments does not equal CLP04",
			File:     file,
			ClaimID:  claim.id,
			Expected: fmt.Sprintf("%.2f", claim.charge-casTotal),
			Actual:   fmt.Sprintf("%.2f", claim.paid),
		})
	}

	if len(claim.services) > 0 {
		if math.Abs(svcCharge-claim.charge) > Tolerance {
			out.add(Issue{
				Severity: SeverityError,
				Type:     "SERVICE_TOTAL",
				Message:  "service line charges do not sum to the claim charge",
				File:     file,
				ClaimID:  claim.id,
				Expected: fmt.Sprintf("%.2f", claim.charge),
				Actual:   fmt.Sprintf("%.2f", svcCharge),
			})
		}
		if math.Abs(svcPaid-claim.paid) > Tolerance {
			out.add(Issue{
				Severity: SeverityError,
				Type:     "SERVICE_TOTAL",
				Message:  "service line payments do not sum to the claim payment",
				File:     file,
				ClaimID:  claim.id,
				Expected: fmt.Sprintf("%.2f", claim.paid),
				Actual:   fmt.Sprintf("%.2f", svcPaid),
			})
		}
	}

	// Predetermination notices price a claim without paying it.
	if claim.status == "25" && math.Abs(claim.paid) > Tolerance {
		out.add(Issue{
			Severity: SeverityError,
			Type:     "PREDETERMINATION",
			Message:  "predetermination claim carries a nonzero payment",
			File:     file,
			ClaimID:  claim.id,
			Actual:   fmt.Sprintf("%.2f", claim.paid),
		})
	}
}

func (v *Validator) validateService(file, claimID string, svc *balanceService, out *Result) {
	if math.Abs(svc.charge-svc.casTotal-svc.paid) > Tolerance {
		out.add(Issue{
			Severity: SeverityError,
			Type:     "SERVICE_BALANCE",
			Message:  fmt.Sprintf("SVC02 minus CAS adjustments does not equal SVC03 for %s", svc.proc),
			File:     file,
			ClaimID:  claimID,
			Expected: fmt.Sprintf("%.2f", svc.charge-svc.casTotal),
			Actual:   fmt.Sprintf("%.2f", svc.paid),
		})
	}
	if svc.start != "" && svc.end != "" && svc.start > svc.end {
		out.add(Issue{
			Severity: SeverityWarning,
			Type:     "SERVICE_DATES",
			Message:  fmt.Sprintf("service start %s after end %s", svc.start, svc.end),
			File:     file,
			ClaimID:  claimID,
		})
	}
}

// collectTransactions replays the segment stream into the balancing model.
func collectTransactions(inter *edi.Interchange) []*balanceTxn {
	var txns []*balanceTxn
	var txn *balanceTxn
	var claim *balanceClaim
	var svc *balanceService

	ensureTxn := func() *balanceTxn {
		if txn == nil {
			txn = &balanceTxn{}
			txns = append(txns, txn)
		}
		return txn
	}

	for _, seg := range inter.Segments {
		switch seg.ID() {
		case "ST":
			txn = &balanceTxn{}
			txns = append(txns, txn)
			claim, svc = nil, nil
		case "BPR":
			t := ensureTxn()
			t.checkAmount = parseFloat(seg.Get(2))
			t.paymentMethod = seg.Get(4)
		case "CLP":
			t := ensureTxn()
			claim = &balanceClaim{
				id:     seg.Get(1),
				status: seg.Get(2),
				charge: parseFloat(seg.Get(3)),
				paid:   parseFloat(seg.Get(4)),
			}
			t.claims = append(t.claims, claim)
			svc = nil
		case "SVC":
			if claim == nil {
				continue
			}
			svc = &balanceService{
				proc:   seg.Get(1),
				charge: parseFloat(seg.Get(2)),
				paid:   parseFloat(seg.Get(3)),
			}
			claim.services = append(claim.services, svc)
		case "DTM":
			if svc == nil {
				continue
			}
			switch seg.Get(1) {
			case "150", "472":
				if svc.start == "" {
					svc.start = seg.Get(2)
				}
			case "151":
				if svc.end == "" {
					svc.end = seg.Get(2)
				}
			}
		case "CAS":
			total := casSegmentTotal(seg)
			switch {
			case svc != nil:
				svc.casTotal += total
			case claim != nil:
				claim.casTotal += total
			}
		case "PLB":
			t := ensureTxn()
			for pos := 4; pos < seg.Len(); pos += 2 {
				t.plbTotal += parseFloat(seg.Get(pos))
			}
		case "SE":
			claim, svc = nil, nil
		}
	}
	return txns
}

func casSegmentTotal(seg edi.Segment) float64 {
	var total float64
	for pos := 2; pos+1 < seg.Len() && pos <= 17; pos += 3 {
		if seg.Get(pos) == "" {
			continue
		}
		total += parseFloat(seg.Get(pos + 1))
	}
	return total
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// validateRows tracks dictionary gaps: codes present in the output whose
// description lookup came back empty.
func (v *Validator) validateRows(rows []domain.Row, out *Result) {
	statusGaps := map[string]bool{}
	filingGaps := map[string]bool{}
	carcGaps := map[string]bool{}

	for _, row := range rows {
		if code := row[domain.ColClaimStatus]; code != "" && dictionary.ClaimStatus(code) == "" {
			statusGaps[code] = true
		}
		if code := row[domain.ColClaimFilingIndic]; code != "" && dictionary.FilingIndicator(code) == "" {
			filingGaps[code] = true
		}
		for i := 1; i <= domain.CASTrios; i++ {
			for _, col := range []string{
				domain.ClaimCASColumn(i, "Reason"),
				domain.ServiceCASColumn(i, "Reason"),
			} {
				if code := row[col]; code != "" && dictionary.CARC(code) == "" {
					carcGaps[code] = true
				}
			}
		}
	}

	addGaps := func(kind string, gaps map[string]bool) {
		for code := range gaps {
			out.add(Issue{
				Severity: SeverityWarning,
				Type:     "DICTIONARY_GAP",
				Message:  fmt.Sprintf("no %s description for code %s", kind, code),
			})
		}
	}
	addGaps("claim status", statusGaps)
	addGaps("filing indicator", filingGaps)
	addGaps("adjustment reason", carcGaps)
}
