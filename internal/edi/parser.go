package edi

import (
	"fmt"
	"strings"

	"remit835/internal/dictionary"
	"remit835/internal/payers"
	"remit835/pkg/contracts/domain"
)

// ParseResult is the outcome of parsing one 835 file.
type ParseResult struct {
	Interchange *Interchange
	Payer       *payers.Payer
	Rows        []domain.Row
}

// Parse reads one 835 interchange and converts it into consolidated rows.
func Parse(filename string, data []byte) (*ParseResult, error) {
	inter, err := ParseInterchange(filename, data)
	if err != nil {
		return nil, err
	}
	payer := identifyPayer(inter)
	rows := convertSegments(inter, payer)
	return &ParseResult{Interchange: inter, Payer: payer, Rows: rows}, nil
}

// identifyPayer scans the segment stream for the identifiers the payer
// registry keys on: TRN03, ISA06 and the L1000A payer name.
func identifyPayer(inter *Interchange) *payers.Payer {
	var trn03, payerName string
	for _, seg := range inter.Segments {
		switch seg.ID() {
		case "TRN":
			if trn03 == "" {
				trn03 = seg.Get(3)
			}
		case "N1":
			if payerName == "" && seg.Get(1) == "PR" {
				payerName = seg.Get(2)
			}
		}
	}
	return payers.Identify(trn03, inter.ISA.SenderID, payerName)
}

// FormatRUN derives the dispatch run number from a patient control number by
// inserting a hyphen after the second character.
func FormatRUN(claimNumber string) string {
	n := strings.TrimSpace(claimNumber)
	if len(n) < 3 {
		return n
	}
	return n[:2] + "-" + n[2:]
}

type claimState struct {
	number        string
	occurrence    int
	status        string
	charge        string
	paid          string
	patientResp   string
	filing        string
	payerCtl      string
	facility      string
	frequency     string
	patientStatus string

	adjustments []Adjustment

	patientLast, patientFirst, patientID string
	insuredLast, insuredFirst, insuredID string
	renderName, renderID                 string
	payerName                            string

	refs map[string]string
	dtms map[string]string
	amts map[string]string
	qtys map[string]string

	moaRate string
	mia     []string
	remarks []string

	pickupName, pickupAddr, pickupCity, pickupState, pickupZip      string
	dropoffName, dropoffAddr, dropoffCity, dropoffState, dropoffZip string

	serviceCount int
}

func newClaimState() *claimState {
	return &claimState{
		refs: map[string]string{},
		dtms: map[string]string{},
		amts: map[string]string{},
		qtys: map[string]string{},
	}
}

type serviceState struct {
	ordinal   int
	qualifier string
	proc      string
	mods      [4]string
	charge    string
	paid      string
	units     string
	origProc  string
	origUnits string

	adjustments []Adjustment
	dtms        map[string]string
	refs        map[string]string
	amts        map[string]string
	qtys        map[string]string
	remarks     []string
}

func newServiceState(ordinal int) *serviceState {
	return &serviceState{
		ordinal: ordinal,
		dtms:    map[string]string{},
		refs:    map[string]string{},
		amts:    map[string]string{},
		qtys:    map[string]string{},
	}
}

// converter walks the segment stream and buffers rows per ST/SE transaction
// so PLB totals, which follow the claims, can be back-filled before the
// buffer is flushed.
type converter struct {
	inter *Interchange
	payer *payers.Payer

	base   domain.Row
	loop   string // "", "1000A", "1000B"
	claim  *claimState
	svc    *serviceState
	buffer []domain.Row
	plbs   []PLBAdjustment
	pended bool

	occurrences map[string]int
	emptyClaims int

	rows []domain.Row
}

func convertSegments(inter *Interchange, payer *payers.Payer) []domain.Row {
	c := &converter{
		inter:       inter,
		payer:       payer,
		base:        domain.Row{},
		occurrences: map[string]int{},
	}
	segs := inter.Segments
	for i := 0; i < len(segs); i++ {
		seg := segs[i]
		switch seg.ID() {
		case "ST":
			c.startTransaction(seg)
		case "BPR":
			c.handleBPR(seg)
		case "TRN":
			c.handleTRN(seg)
		case "CUR":
			c.handleCUR(seg)
		case "RDM":
			c.handleRDM(seg)
		case "REF":
			c.handleREF(seg)
		case "PER":
			c.handlePER(seg)
		case "DTM":
			c.handleDTM(seg)
		case "N1":
			c.handleN1(seg)
		case "N3":
			c.handleN3(seg)
		case "N4":
			c.handleN4(seg)
		case "CLP":
			c.handleCLP(seg)
		case "NM1":
			c.handleNM1(segs, i)
		case "SVC":
			c.handleSVC(seg)
		case "CAS":
			c.handleCAS(seg)
		case "AMT":
			c.handleAMT(seg)
		case "QTY":
			c.handleQTY(seg)
		case "MOA":
			c.handleMOA(seg)
		case "MIA":
			c.handleMIA(seg)
		case "LQ":
			c.handleLQ(seg)
		case "PLB":
			c.plbs = append(c.plbs, parsePLB(seg, inter.Delims.Component)...)
		case "SE":
			c.endTransaction()
		}
	}
	// Tolerate a truncated interchange with a missing SE.
	if len(c.buffer) > 0 || c.claim != nil || c.svc != nil {
		c.endTransaction()
	}
	return c.rows
}

func (c *converter) startTransaction(seg Segment) {
	c.endPendingClaim()
	c.flushBuffer()

	isa, gs := c.inter.ISA, c.inter.GS
	c.base = domain.Row{
		domain.ColFilename:          c.inter.Filename,
		domain.ColISAControlNumber:  isa.ControlNumber,
		domain.ColISADate:           isa.Date,
		domain.ColISATime:           isa.Time,
		domain.ColISASenderID:       isa.SenderID,
		domain.ColISAReceiverID:     isa.ReceiverID,
		domain.ColISAUsageIndicator: isa.UsageIndicator,
		domain.ColGSControlNumber:   gs.ControlNumber,
		domain.ColGSDate:            gs.Date,
		domain.ColGSVersionCode:     gs.Version,
		domain.ColSTControlNumber:   seg.Get(2),
		domain.ColSTConventionRef:   seg.Get(3),
	}
	if c.payer != nil {
		c.base[domain.ColPayerKey] = c.payer.Key
	}
	c.loop = ""
	c.claim = nil
	c.svc = nil
	c.pended = false
	c.plbs = nil
}

func (c *converter) handleBPR(seg Segment) {
	method := seg.Get(4)
	c.base[domain.ColCheckHandlingCode] = seg.Get(1)
	c.base[domain.ColCheckAmount] = seg.Get(2)
	c.base[domain.ColCheckCreditDebit] = seg.Get(3)
	c.base[domain.ColCheckPaymentMethod] = method
	c.base[domain.ColCheckPaymentDesc] = dictionary.PaymentMethod(method)
	c.base[domain.ColCheckPaymentFormat] = seg.Get(5)
	c.base[domain.ColCheckFormatDesc] = dictionary.PaymentFormat(seg.Get(5))
	c.base[domain.ColCheckEffectiveDate] = seg.Get(16)
}

func (c *converter) handleTRN(seg Segment) {
	c.base[domain.ColCheckTraceType] = seg.Get(1)
	c.base[domain.ColCheckTraceNumber] = seg.Get(2)
	c.base[domain.ColCheckOriginCompany] = seg.Get(3)
}

// handleCUR records the header currency segment carried on foreign-currency
// remittances. Claim-level CUR does not occur in practice.
func (c *converter) handleCUR(seg Segment) {
	if c.claim != nil {
		return
	}
	c.base[domain.ColCurrencyCode] = seg.Get(2)
	c.base[domain.ColExchangeRate] = seg.Get(3)
}

func (c *converter) handleRDM(seg Segment) {
	if c.claim != nil {
		return
	}
	c.base[domain.ColRDMTransmissionCode] = seg.Get(1)
	c.base[domain.ColRDMName] = seg.Get(2)
}

func (c *converter) handleREF(seg Segment) {
	qualifier, value := seg.Get(1), seg.Get(2)
	switch {
	case c.svc != nil:
		if _, seen := c.svc.refs[qualifier]; !seen {
			c.svc.refs[qualifier] = value
		}
	case c.claim != nil:
		if _, seen := c.claim.refs[qualifier]; !seen {
			c.claim.refs[qualifier] = value
		}
	case c.loop == "1000B":
		switch qualifier {
		case "PQ":
			c.base[domain.ColProviderSecondaryID] = value
		case "TJ":
			c.base[domain.ColProviderTaxID] = value
		}
	case c.loop == "1000A":
		// Payer secondary identification, not carried in the output.
	default:
		switch qualifier {
		case "EV":
			c.base[domain.ColCheckReceiverID] = value
		case "2U":
			c.base[domain.ColCheckPayerAddlID] = value
		}
	}
}

func (c *converter) handlePER(seg Segment) {
	if c.claim != nil || c.svc != nil {
		return
	}
	name, number := seg.Get(2), seg.Get(4)
	switch seg.Get(1) {
	case "BL":
		c.base[domain.ColPayerContactBL] = name
		c.base[domain.ColPayerContactBLNo] = number
	case "CX":
		c.base[domain.ColPayerContactCX] = name
		c.base[domain.ColPayerContactCXNo] = number
	case "IC":
		c.base[domain.ColPayerContactIC] = name
		c.base[domain.ColPayerContactICNo] = number
	}
}

func (c *converter) handleDTM(seg Segment) {
	qualifier, value := seg.Get(1), seg.Get(2)
	switch {
	case c.svc != nil:
		if _, seen := c.svc.dtms[qualifier]; !seen {
			c.svc.dtms[qualifier] = value
		}
	case c.claim != nil:
		if _, seen := c.claim.dtms[qualifier]; !seen {
			c.claim.dtms[qualifier] = value
		}
	default:
		if qualifier == "405" {
			c.base[domain.ColCheckProductionDate] = value
		}
	}
}

func (c *converter) handleN1(seg Segment) {
	switch seg.Get(1) {
	case "PR":
		c.loop = "1000A"
		c.base[domain.ColPayerName] = seg.Get(2)
		c.base[domain.ColPayerIDQualifier] = seg.Get(3)
		c.base[domain.ColPayerID] = seg.Get(4)
	case "PE":
		c.loop = "1000B"
		c.base[domain.ColProviderName] = seg.Get(2)
		c.base[domain.ColProviderIDQualifier] = seg.Get(3)
		c.base[domain.ColProviderID] = seg.Get(4)
	}
}

func (c *converter) handleN3(seg Segment) {
	if c.claim != nil || c.svc != nil {
		return
	}
	switch c.loop {
	case "1000A":
		c.base[domain.ColPayerAddress] = seg.Get(1)
		c.base[domain.ColPayerAddress2] = seg.Get(2)
	case "1000B":
		c.base[domain.ColProviderAddress] = seg.Get(1)
	}
}

func (c *converter) handleN4(seg Segment) {
	if c.claim != nil || c.svc != nil {
		return
	}
	switch c.loop {
	case "1000A":
		c.base[domain.ColPayerCity] = seg.Get(1)
		c.base[domain.ColPayerState] = seg.Get(2)
		c.base[domain.ColPayerZip] = seg.Get(3)
	case "1000B":
		c.base[domain.ColProviderCity] = seg.Get(1)
		c.base[domain.ColProviderState] = seg.Get(2)
		c.base[domain.ColProviderZip] = seg.Get(3)
	}
}

func (c *converter) handleCLP(seg Segment) {
	c.endPendingClaim()

	claim := newClaimState()
	claim.number = seg.Get(1)
	if claim.number == "" {
		c.emptyClaims++
		claim.number = fmt.Sprintf("EMPTY_CLAIM_%d", c.emptyClaims)
	}
	c.occurrences[claim.number]++
	claim.occurrence = c.occurrences[claim.number]

	claim.status = seg.Get(2)
	claim.charge = seg.Get(3)
	claim.paid = seg.Get(4)
	claim.patientResp = seg.Get(5)
	claim.filing = seg.Get(6)
	claim.payerCtl = seg.Get(7)
	claim.facility = seg.Get(8)
	claim.frequency = seg.Get(9)
	claim.patientStatus = seg.Get(10)

	if dictionary.IsPendedStatus(claim.status) {
		c.pended = true
	}
	c.claim = claim
	c.svc = nil
}

// handleNM1 routes claim-level name segments. Ambulance pickup and dropoff
// entities carry their address in trailing N3/N4 segments, read here by
// lookahead; the main loop ignores claim-level N3/N4 so nothing is consumed.
func (c *converter) handleNM1(segs []Segment, i int) {
	seg := segs[i]
	if c.claim == nil {
		return
	}
	entity := seg.Get(1)
	switch entity {
	case "QC":
		c.claim.patientLast = seg.Get(3)
		c.claim.patientFirst = seg.Get(4)
		c.claim.patientID = seg.Get(9)
	case "IL":
		c.claim.insuredLast = seg.Get(3)
		c.claim.insuredFirst = seg.Get(4)
		c.claim.insuredID = seg.Get(9)
	case "82":
		if c.claim.renderName == "" {
			c.claim.renderName = joinName(seg.Get(3), seg.Get(4))
			c.claim.renderID = seg.Get(9)
		}
	case "PR":
		c.claim.payerName = seg.Get(3)
	case "PW", "45":
		name := seg.Get(3)
		var addr, city, state, zip string
		for off := 1; off <= 3 && i+off < len(segs); off++ {
			next := segs[i+off]
			switch next.ID() {
			case "N3":
				addr = next.Get(1)
			case "N4":
				city = next.Get(1)
				state = next.Get(2)
				zip = next.Get(3)
			case "NM1", "CLP", "SE", "SVC":
				off = 4
			}
		}
		if entity == "PW" {
			c.claim.pickupName = name
			c.claim.pickupAddr = addr
			c.claim.pickupCity = city
			c.claim.pickupState = state
			c.claim.pickupZip = zip
		} else {
			c.claim.dropoffName = name
			c.claim.dropoffAddr = addr
			c.claim.dropoffCity = city
			c.claim.dropoffState = state
			c.claim.dropoffZip = zip
		}
	}
}

func (c *converter) handleSVC(seg Segment) {
	if c.claim == nil {
		return
	}
	c.flushService()

	svc := newServiceState(c.claim.serviceCount + 1)
	qualifier, proc, mods := splitProcedure(seg.Get(1), c.inter.Delims.Component)
	svc.qualifier = qualifier
	svc.proc = proc
	svc.mods = mods
	svc.charge = seg.Get(2)
	svc.paid = seg.Get(3)
	svc.units = seg.Get(5)
	svc.origProc = seg.Get(6)
	svc.origUnits = seg.Get(7)
	c.svc = svc
}

// splitProcedure decomposes the SVC01 composite. A bare value without a
// component separator is an HC procedure code.
func splitProcedure(composite string, component byte) (string, string, [4]string) {
	var mods [4]string
	if !strings.ContainsRune(composite, rune(component)) {
		return "HC", composite, mods
	}
	parts := strings.Split(composite, string(component))
	qualifier := parts[0]
	proc := ""
	if len(parts) > 1 {
		proc = parts[1]
	}
	for i := 0; i < 4 && i+2 < len(parts); i++ {
		mods[i] = parts[i+2]
	}
	return qualifier, proc, mods
}

func (c *converter) handleCAS(seg Segment) {
	adjs := parseCAS(seg, c.payer)
	switch {
	case c.svc != nil:
		c.svc.adjustments = append(c.svc.adjustments, adjs...)
	case c.claim != nil:
		c.claim.adjustments = append(c.claim.adjustments, adjs...)
	}
}

func (c *converter) handleAMT(seg Segment) {
	qualifier, value := seg.Get(1), seg.Get(2)
	switch {
	case c.svc != nil:
		if _, seen := c.svc.amts[qualifier]; !seen {
			c.svc.amts[qualifier] = value
		}
	case c.claim != nil:
		if _, seen := c.claim.amts[qualifier]; !seen {
			c.claim.amts[qualifier] = value
		}
	}
}

func (c *converter) handleQTY(seg Segment) {
	qualifier, value := seg.Get(1), seg.Get(2)
	switch {
	case c.svc != nil:
		if _, seen := c.svc.qtys[qualifier]; !seen {
			c.svc.qtys[qualifier] = value
		}
	case c.claim != nil:
		if _, seen := c.claim.qtys[qualifier]; !seen {
			c.claim.qtys[qualifier] = value
		}
	}
}

// handleMIA captures the Medicare inpatient adjudication elements. Only the
// first MIA per claim is kept, matching how payers emit it.
func (c *converter) handleMIA(seg Segment) {
	if c.claim == nil || c.claim.mia != nil {
		return
	}
	mia := make([]string, domain.MIAElements+1)
	for pos := 1; pos <= domain.MIAElements; pos++ {
		mia[pos] = seg.Get(pos)
	}
	c.claim.mia = mia
}

func (c *converter) handleMOA(seg Segment) {
	if c.claim == nil {
		return
	}
	c.claim.moaRate = seg.Get(1)
	for pos := 3; pos <= 7; pos++ {
		if code := seg.Get(pos); code != "" {
			c.claim.remarks = append(c.claim.remarks, code)
		}
	}
}

func (c *converter) handleLQ(seg Segment) {
	if seg.Get(1) != "HE" {
		return
	}
	code := seg.Get(2)
	if code == "" {
		return
	}
	switch {
	case c.svc != nil:
		c.svc.remarks = append(c.svc.remarks, code)
	case c.claim != nil:
		c.claim.remarks = append(c.claim.remarks, code)
	}
}

// endPendingClaim flushes the open service line and, for a claim that never
// produced one, its claim-level row.
func (c *converter) endPendingClaim() {
	c.flushService()
	if c.claim != nil && c.claim.serviceCount == 0 {
		c.buffer = append(c.buffer, c.buildRow(c.claim, nil))
	}
	c.claim = nil
}

func (c *converter) flushService() {
	if c.svc == nil {
		return
	}
	c.buffer = append(c.buffer, c.buildRow(c.claim, c.svc))
	c.claim.serviceCount++
	c.svc = nil
}

// endTransaction back-fills PLB data and the pended flag into the buffered
// rows and moves them to the output.
func (c *converter) endTransaction() {
	c.endPendingClaim()
	c.flushBuffer()
}

func (c *converter) flushBuffer() {
	if len(c.buffer) == 0 {
		return
	}
	markRefundAcks(c.plbs)
	total := ""
	details := ""
	if len(c.plbs) > 0 {
		total = money(plbTotal(c.plbs))
		details = plbDetails(c.plbs)
	}
	txnType := "835"
	if c.pended {
		txnType = "835S"
	}
	for _, row := range c.buffer {
		row[domain.ColPendedReport] = txnType
		row[domain.ColPLBTotal] = total
		row[domain.ColPLBDetails] = details
		for slot := 1; slot <= domain.PLBAdjSlots; slot++ {
			var adj PLBAdjustment
			if slot-1 < len(c.plbs) {
				adj = c.plbs[slot-1]
			}
			row[domain.PLBAdjColumn(slot, "ReasonCode")] = adj.ReasonCode
			row[domain.PLBAdjColumn(slot, "RefID")] = adj.ReferenceID
			if adj.AmountRaw != "" {
				row[domain.PLBAdjColumn(slot, "Amount")] = money(adj.Amount)
			}
		}
		c.rows = append(c.rows, row)
	}
	c.buffer = nil
	c.plbs = nil
	c.pended = false
}

func joinName(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ", ")
}
