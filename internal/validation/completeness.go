package validation

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"remit835/internal/dictionary"
	"remit835/internal/edi"
	"remit835/internal/redact"
	"remit835/pkg/contracts/domain"
)

// mappedElements lists the segment element positions the converter carries
// into output columns. Populated data anywhere else has no CSV home and is
// reported as an unmapped element.
var mappedElements = map[string]map[int]bool{
	"BPR": posSet(1, 2, 3, 4, 5, 16),
	"TRN": posSet(1, 2, 3),
	"CUR": posSet(1, 2, 3),
	"RDM": posSet(1, 2),
	"CLP": posRange(1, 10),
	"SVC": posSet(1, 2, 3, 5, 6, 7),
	"MOA": posSet(1, 3, 4, 5, 6, 7),
	"MIA": posRange(1, domain.MIAElements),
}

// mappedQualifiers covers the qualifier-driven segments: the converter routes
// on element 1, so coverage is per qualifier value instead of per position.
var mappedQualifiers = map[string]map[string]bool{
	"REF": qualSet("EV", "2U", "PQ", "TJ", "1W", "SY", "EA", "6R"),
	"DTM": qualSet("405", "232", "233", "150", "151", "472", "050", "435"),
	"AMT": qualSet("AU", "I", "F5", "B6"),
	"QTY": qualSet("CA", "PT"),
	"LQ":  qualSet("HE"),
	"NM1": qualSet("QC", "IL", "82", "PR", "PW", "45"),
}

// contextSegments carry envelope, name/address or adjustment data the
// converter handles structurally rather than by position; they are exempt
// from the element survey.
var contextSegments = map[string]bool{
	"ISA": true, "GS": true, "GE": true, "IEA": true, "ST": true, "SE": true,
	"N1": true, "N2": true, "N3": true, "N4": true, "PER": true,
	"CAS": true, "LX": true, "PLB": true, "TS2": true, "TS3": true,
}

func posSet(positions ...int) map[int]bool {
	set := make(map[int]bool, len(positions))
	for _, pos := range positions {
		set[pos] = true
	}
	return set
}

func posRange(lo, hi int) map[int]bool {
	set := make(map[int]bool, hi-lo+1)
	for pos := lo; pos <= hi; pos++ {
		set[pos] = true
	}
	return set
}

func qualSet(qualifiers ...string) map[string]bool {
	set := make(map[string]bool, len(qualifiers))
	for _, q := range qualifiers {
		set[q] = true
	}
	return set
}

func qualifierDesc(segID, qualifier string) string {
	switch segID {
	case "REF":
		return dictionary.ReferenceQualifier(qualifier)
	case "DTM":
		return dictionary.DateQualifier(qualifier)
	case "AMT":
		return dictionary.AmountQualifier(qualifier)
	case "QTY":
		return dictionary.QuantityQualifier(qualifier)
	case "NM1":
		return dictionary.EntityIdentifier(qualifier)
	}
	return ""
}

type presenceStat struct {
	occurrences int
	files       int
	lastFile    string
}

func (s *presenceStat) bump(file string) {
	s.occurrences++
	if s.lastFile != file {
		s.files++
		s.lastFile = file
	}
}

// presenceTracker surveys which populated element positions and qualifier
// values across a run never reach an output column.
type presenceTracker struct {
	files      int
	elements   map[string]map[int]*presenceStat
	qualifiers map[string]map[string]*presenceStat
}

func newPresenceTracker() *presenceTracker {
	return &presenceTracker{
		elements:   map[string]map[int]*presenceStat{},
		qualifiers: map[string]map[string]*presenceStat{},
	}
}

func (t *presenceTracker) trackFile(inter *edi.Interchange) {
	t.files++
	file := inter.Filename
	for _, seg := range inter.Segments {
		id := seg.ID()
		if id == "" || contextSegments[id] {
			continue
		}
		if _, driven := mappedQualifiers[id]; driven {
			qualifier := seg.Get(1)
			if qualifier == "" || seg.Get(2) == "" {
				continue
			}
			byQual := t.qualifiers[id]
			if byQual == nil {
				byQual = map[string]*presenceStat{}
				t.qualifiers[id] = byQual
			}
			stat := byQual[qualifier]
			if stat == nil {
				stat = &presenceStat{}
				byQual[qualifier] = stat
			}
			stat.bump(file)
			continue
		}
		for pos := 1; pos < seg.Len(); pos++ {
			if seg.Get(pos) == "" {
				continue
			}
			byPos := t.elements[id]
			if byPos == nil {
				byPos = map[int]*presenceStat{}
				t.elements[id] = byPos
			}
			stat := byPos[pos]
			if stat == nil {
				stat = &presenceStat{}
				byPos[pos] = stat
			}
			stat.bump(file)
		}
	}
}

// report emits one warning per element position or qualifier value that
// carried data but maps to no output column.
func (t *presenceTracker) report(out *Result) {
	for _, id := range sortedKeys(t.elements) {
		byPos := t.elements[id]
		mapped := mappedElements[id]
		var positions []int
		for pos := range byPos {
			positions = append(positions, pos)
		}
		sort.Ints(positions)
		for _, pos := range positions {
			if mapped[pos] {
				continue
			}
			stat := byPos[pos]
			out.add(Issue{
				Severity: SeverityWarning,
				Type:     "UNMAPPED_ELEMENT",
				Message: fmt.Sprintf("%s*%02d has data but no output column (%d occurrences in %d of %d files)",
					id, pos, stat.occurrences, stat.files, t.files),
			})
		}
	}
	for _, id := range sortedKeys(t.qualifiers) {
		byQual := t.qualifiers[id]
		mapped := mappedQualifiers[id]
		var qualifiers []string
		for q := range byQual {
			qualifiers = append(qualifiers, q)
		}
		sort.Strings(qualifiers)
		for _, q := range qualifiers {
			if mapped[q] {
				continue
			}
			label := q
			if desc := qualifierDesc(id, q); desc != "" {
				label = fmt.Sprintf("%s (%s)", q, desc)
			}
			stat := byQual[q]
			out.add(Issue{
				Severity: SeverityWarning,
				Type:     "UNMAPPED_QUALIFIER",
				Message: fmt.Sprintf("%s qualifier %s has no output column (%d occurrences in %d of %d files)",
					id, label, stat.occurrences, stat.files, t.files),
			})
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// rowIndex locates output rows by file, claim number and sequence so the
// source-side checks can find the row a segment produced.
type rowIndex map[string]domain.Row

func rowKey(file, claim, seq string) string {
	return file + "|" + claim + "|" + seq
}

func indexRows(rows []domain.Row) rowIndex {
	idx := make(rowIndex, len(rows))
	for _, row := range rows {
		idx[rowKey(row[domain.ColFilename], row[domain.ColClaimNumber], row[domain.ColSEQ])] = row
	}
	return idx
}

var bucketColumns = []struct {
	col    string
	amount func(edi.Buckets) float64
}{
	{domain.ColContractual, func(b edi.Buckets) float64 { return b.Contractual }},
	{domain.ColDeductible, func(b edi.Buckets) float64 { return b.Deductible }},
	{domain.ColCoinsurance, func(b edi.Buckets) float64 { return b.Coinsurance }},
	{domain.ColCopay, func(b edi.Buckets) float64 { return b.Copay }},
	{domain.ColDenied, func(b edi.Buckets) float64 { return b.Denied }},
	{domain.ColCOB, func(b edi.Buckets) float64 { return b.COB }},
	{domain.ColSequestration, func(b edi.Buckets) float64 { return b.Sequestration }},
	{domain.ColHCRA, func(b edi.Buckets) float64 { return b.HCRA }},
	{domain.ColQMB, func(b edi.Buckets) float64 { return b.QMB }},
	{domain.ColOtherAdjustments, func(b edi.Buckets) float64 { return b.OtherAdjustments }},
	{domain.ColPatientNonCovered, func(b edi.Buckets) float64 { return b.PRNonCovered }},
	{domain.ColPatientOtherResp, func(b edi.Buckets) float64 { return b.OtherPatientResp }},
}

// validateCAS rebuilds every CAS adjustment independently of the row
// converter and checks that the trio columns and categorized buckets in the
// output reproduce the source segments.
func (v *Validator) validateCAS(res *edi.ParseResult, index rowIndex, out *Result) {
	file := res.Interchange.Filename
	occurrences := map[string]int{}

	var claimID string
	var claimOcc, svcOrdinal int
	var claimAdjs, svcAdjs []edi.Adjustment
	inService := false

	flushService := func() {
		if !inService {
			return
		}
		seq := fmt.Sprintf("%d-%d", claimOcc, svcOrdinal)
		v.checkCASRow(file, claimID, seq, svcAdjs, domain.ServiceCASColumn, index, out, true)
		svcAdjs = nil
		inService = false
	}
	flushClaim := func() {
		flushService()
		if claimID == "" {
			return
		}
		// Claim trios repeat on every row of the claim; the claim-only row
		// additionally carries the claim-level buckets.
		if svcOrdinal == 0 {
			seq := fmt.Sprintf("%d-0", claimOcc)
			v.checkCASRow(file, claimID, seq, claimAdjs, domain.ClaimCASColumn, index, out, true)
		} else {
			seq := fmt.Sprintf("%d-%d", claimOcc, svcOrdinal)
			v.checkCASRow(file, claimID, seq, claimAdjs, domain.ClaimCASColumn, index, out, false)
		}
		claimID = ""
		claimAdjs = nil
		svcOrdinal = 0
	}

	for _, seg := range res.Interchange.Segments {
		switch seg.ID() {
		case "ST":
			flushClaim()
		case "CLP":
			flushClaim()
			// Claims without a number get synthesized identifiers in the
			// output; they carry no payer CAS worth cross-checking.
			if id := seg.Get(1); id != "" {
				claimID = id
				occurrences[id]++
				claimOcc = occurrences[id]
			}
		case "SVC":
			if claimID == "" {
				continue
			}
			flushService()
			svcOrdinal++
			inService = true
		case "CAS":
			adjs := edi.CASAdjustments(seg, res.Payer)
			switch {
			case inService:
				svcAdjs = append(svcAdjs, adjs...)
			case claimID != "":
				claimAdjs = append(claimAdjs, adjs...)
			}
		case "SE":
			flushClaim()
		}
	}
	flushClaim()
}

func (v *Validator) checkCASRow(file, claimID, seq string, adjs []edi.Adjustment,
	column func(int, string) string, index rowIndex, out *Result, withBuckets bool) {
	row, ok := index[rowKey(file, claimID, seq)]
	if !ok {
		out.add(Issue{
			Severity: SeverityError,
			Type:     "CAS_TRIO",
			Message:  fmt.Sprintf("no output row for sequence %s", seq),
			File:     file,
			ClaimID:  claimID,
		})
		return
	}

	for i := 1; i <= domain.CASTrios; i++ {
		var want edi.Adjustment
		if i-1 < len(adjs) {
			want = adjs[i-1]
		}
		if got := row[column(i, "Reason")]; got != want.Reason {
			out.add(Issue{
				Severity: SeverityError,
				Type:     "CAS_TRIO",
				Message:  fmt.Sprintf("%s does not match the source CAS at sequence %s", column(i, "Reason"), seq),
				File:     file,
				ClaimID:  claimID,
				Expected: want.Reason,
				Actual:   got,
			})
			continue
		}
		if got := row[column(i, "Amount")]; math.Abs(parseFloat(got)-want.Amount) > Tolerance {
			out.add(Issue{
				Severity: SeverityError,
				Type:     "CAS_TRIO",
				Message:  fmt.Sprintf("%s does not match the source CAS at sequence %s", column(i, "Amount"), seq),
				File:     file,
				ClaimID:  claimID,
				Expected: fmt.Sprintf("%.2f", want.Amount),
				Actual:   got,
			})
		}
	}
	if len(adjs) > domain.CASTrios {
		out.add(Issue{
			Severity: SeverityWarning,
			Type:     "CAS_TRIO",
			Message: fmt.Sprintf("%d adjustments exceed the %d trio columns at sequence %s",
				len(adjs), domain.CASTrios, seq),
			File:    file,
			ClaimID: claimID,
		})
	}

	if !withBuckets {
		return
	}
	want := edi.Categorize(adjs)
	for _, bucket := range bucketColumns {
		expected := bucket.amount(want)
		got := row[bucket.col]
		if math.Abs(parseFloat(got)-expected) > Tolerance {
			out.add(Issue{
				Severity: SeverityError,
				Type:     "CAS_CATEGORY",
				Message:  fmt.Sprintf("%s does not match the source adjustments at sequence %s", bucket.col, seq),
				File:     file,
				ClaimID:  claimID,
				Expected: fmt.Sprintf("%.2f", expected),
				Actual:   got,
			})
		}
	}
}

// surveyDates classifies every populated date column value by layout. The
// counts land in the result for reporting; values matching no known layout
// raise a warning with up to three examples.
func (v *Validator) surveyDates(rows []domain.Row, out *Result) {
	var dateCols []string
	for _, col := range domain.Columns() {
		if redact.IsDateColumn(col) {
			dateCols = append(dateCols, col)
		}
	}

	type badValue struct{ value, claim string }
	survey := map[string]map[string]int{}
	unknown := map[string][]badValue{}
	unknownCount := map[string]int{}

	for _, row := range rows {
		for _, col := range dateCols {
			value := row[col]
			if value == "" {
				continue
			}
			layout, ok := redact.DetectDateLayout(value)
			if !ok {
				unknownCount[col]++
				if len(unknown[col]) < 3 {
					unknown[col] = append(unknown[col], badValue{value, row[domain.ColClaimNumber]})
				}
				continue
			}
			byLayout := survey[col]
			if byLayout == nil {
				byLayout = map[string]int{}
				survey[col] = byLayout
			}
			byLayout[layout]++
		}
	}

	out.DateSurvey = survey
	for _, col := range dateCols {
		count := unknownCount[col]
		if count == 0 {
			continue
		}
		examples := make([]string, 0, len(unknown[col]))
		for _, bad := range unknown[col] {
			examples = append(examples, fmt.Sprintf("%q (claim %s)", bad.value, bad.claim))
		}
		msg := fmt.Sprintf("%d values in %s match no known date layout: %s",
			count, col, strings.Join(examples, ", "))
		if count > len(examples) {
			msg += fmt.Sprintf(" and %d more", count-len(examples))
		}
		out.add(Issue{Severity: SeverityWarning, Type: "DATE_FORMAT", Message: msg})
	}
}
