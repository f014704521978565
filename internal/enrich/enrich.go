// Package enrich joins parsed remittance rows with dispatch trip data and
// Fair Health rate schedules to compute the FH_* benchmark columns.
package enrich

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"remit835/pkg/contracts/domain"
)

// Mileage and base-rate HCPCS sets for ground ambulance billing. Mileage
// lines price per mile against a 15-mile benchmark unit.
var (
	mileageCodes = map[string]bool{
		"A0425": true, "A0435": true, "A0436": true,
	}
	baseRateCodes = map[string]bool{
		"A0426": true, "A0427": true, "A0428": true,
		"A0429": true, "A0433": true, "A0434": true,
	}
)

const mileageBaseUnits = 15

// Enricher fills the trip and Fair Health columns on parsed rows. A nil
// trips map or rate table leaves the corresponding columns empty.
type Enricher struct {
	trips  map[string]string
	rates  *RateTable
	logger *slog.Logger
}

// New builds an Enricher. Either source may be nil when the lookup is
// disabled or its input file is missing.
func New(trips map[string]string, rates *RateTable, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{trips: trips, rates: rates, logger: logger}
}

// Enrich updates rows in place.
func (e *Enricher) Enrich(rows []domain.Row) {
	for _, row := range rows {
		e.enrichRow(row)
	}
}

func (e *Enricher) enrichRow(row domain.Row) {
	proc := NormalizeHCPCS(row[domain.ColSVCProcedureCode])
	if proc == "" {
		return
	}
	isMileage := mileageCodes[proc]

	units := positiveNumber(row[domain.ColSVCUnits])
	if units == nil {
		units = positiveNumber(row[domain.ColSVCOriginalUnits])
	}

	displayUnits := units
	if displayUnits == nil {
		switch {
		case isMileage:
			v := float64(mileageBaseUnits)
			displayUnits = &v
		case baseRateCodes[proc]:
			v := 1.0
			displayUnits = &v
		}
	}
	if displayUnits != nil {
		row[domain.ColFHEffectiveUnits] = trimUnits(*displayUnits)
	}

	if isMileage && units != nil {
		if charge := positiveNumber(row[domain.ColSVCChargeAmount]); charge != nil {
			row[domain.ColMileageUnitPrice] = money(*charge / *units)
		}
	}

	zip := e.trips[row[domain.ColRUN]]
	if zip == "" {
		return
	}
	row[domain.ColFHPickupZIP] = zip

	if e.rates == nil {
		return
	}
	serviceDate, haveDate := parseServiceDate(row[domain.ColSVCStartDate])
	oon, in, ok := e.rates.Lookup(zip, proc, serviceDate, haveDate)
	if !ok {
		return
	}

	setBenchmark(row, oon, isMileage, units,
		domain.ColFHOutOfNetwork, domain.ColFHOONUnitPrice,
		domain.ColFHOONMiles, domain.ColFHOONFinal)
	setBenchmark(row, in, isMileage, units,
		domain.ColFHInNetwork, domain.ColFHINUnitPrice,
		domain.ColFHINMiles, domain.ColFHINFinal)
}

// setBenchmark writes one network side of the Fair Health columns. Mileage
// lines derive a per-mile price from the 15-mile benchmark rate and project
// it over the billed units.
func setBenchmark(row domain.Row, rate *float64, isMileage bool, units *float64,
	rateCol, unitPriceCol, milesCol, finalCol string) {
	if rate == nil {
		return
	}
	row[rateCol] = money(*rate)
	if !isMileage {
		row[finalCol] = money(*rate)
		return
	}
	unitPrice := roundCents(*rate / mileageBaseUnits)
	row[unitPriceCol] = money(unitPrice)
	if units != nil {
		miles := roundCents(unitPrice * *units)
		row[milesCol] = money(miles)
		row[finalCol] = money(miles)
	} else {
		row[finalCol] = money(*rate)
	}
}

func parseServiceDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if len(value) != 8 {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// positiveNumber parses a strictly positive numeric string.
func positiveNumber(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// trimUnits renders a unit count without trailing zeros (15, not 15.00).
func trimUnits(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func roundCents(v float64) float64 {
	return math.Copysign(math.Floor(math.Abs(v)*100+0.5), v) / 100
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", roundCents(v))
}
