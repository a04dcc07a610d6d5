package types

// Schedule is the weekly open/close window plus closed calendar dates,
// stored as jsonb on the store row. Times are "HH:MM" in the store's local
// zone; closed dates are "YYYY-MM-DD".
type Schedule struct {
	OpenTime    string   `json:"open_time"`
	CloseTime   string   `json:"close_time"`
	ClosedDates []string `json:"closed_dates,omitempty"`
}
