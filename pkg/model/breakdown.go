package model

import "encoding/json"

// BreakdownRow is the persisted pricing computation for one participant of a
// reservation. Monetary fields are whole currency units, rounded at
// computation time; the row set is the only durable source of revenue data,
// so the stored figures are never recomputed.
type BreakdownRow struct {
	Name              string `json:"name"`
	BasePrice         int64  `json:"base_price"`
	GroupDiscount     int    `json:"group_discount"`
	FrequencyDiscount int    `json:"frequency_discount"`
	Birthday          bool   `json:"birthday"`
	SpecialDiscount   int    `json:"special_discount"`
	AppliedDiscount   int    `json:"applied_discount"`
	Subtotal          int64  `json:"subtotal"`
	Tax               int64  `json:"tax"`
	Total             int64  `json:"total"`
}

// EncodeBreakdown serializes breakdown rows for the reservation's
// group_detail field.
func EncodeBreakdown(rows []BreakdownRow) (string, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeBreakdown parses a stored group_detail field. Callers replaying
// historical data are expected to skip rows that fail to decode.
func DecodeBreakdown(detail string) ([]BreakdownRow, error) {
	var rows []BreakdownRow
	if err := json.Unmarshal([]byte(detail), &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
