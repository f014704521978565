// Package domain defines the shared data contracts for 835 remittance
// processing: the consolidated output row, its canonical column order, and
// the display header mapping used by CSV artifacts.
package domain

// Row is a single consolidated output record, keyed by canonical column name.
// One row is produced per service line; claims without service detail emit a
// single claim-level row with the SVC_* columns empty.
type Row map[string]string

// Get returns the value for a column, or "" when unset.
func (r Row) Get(col string) string {
	return r[col]
}

// Set stores a value for a column.
func (r Row) Set(col, value string) {
	r[col] = value
}

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Values returns the row values in canonical column order. Unknown columns
// are ignored; missing columns render as empty cells.
func (r Row) Values(columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = r[col]
	}
	return out
}

// IsServiceLine reports whether the row carries service-level detail.
func (r Row) IsServiceLine() bool {
	return r[ColSVCChargeAmount] != "" || r[ColSVCProcedureCode] != ""
}
