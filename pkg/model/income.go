package model

// IncomeTable is a monthly revenue report. Columns holds one label per
// calendar month in the requested range plus a trailing "Total"; Rows holds
// one row per fixed category plus a trailing "TOTAL" row. Row values align
// positionally with Columns.
type IncomeTable struct {
	Columns []string    `json:"columns"`
	Rows    []IncomeRow `json:"rows"`
}

type IncomeRow struct {
	Category string  `json:"category"`
	Values   []int64 `json:"values"`
}
