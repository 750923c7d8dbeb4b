package models

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DashboardResponse is the body of GET /dashboard
type DashboardResponse struct {
	Snapshot   DashboardSnapshot     `json:"snapshot"`
	Currency   string                `json:"currency"`
	Summary    *CrisisSummary        `json:"crisis_summary,omitempty"`
	Annotation *MacroChartAnnotation `json:"macro_annotation,omitempty"`
	Warnings   []Warning             `json:"warnings,omitempty"`
}

// RefreshResponse is the body of POST /dashboard/refresh
type RefreshResponse struct {
	RefreshID string            `json:"refresh_id"`
	Status    AggregationStatus `json:"crisis_status"`
	Events    int               `json:"crisis_events"`
	Warnings  []Warning         `json:"warnings,omitempty"`
}

// ConvertRequest represents the query parameters of GET /convert
type ConvertRequest struct {
	Amount float64 `form:"amount"`
	From   string  `form:"from" binding:"required"`
	To     string  `form:"to" binding:"required"`
}

// ConvertResponse represents the result of a currency conversion
type ConvertResponse struct {
	Amount    float64 `json:"amount"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Converted float64 `json:"converted"`
	Base      string  `json:"base,omitempty"`
}

// CycleResponse is the body of GET /cycle
type CycleResponse struct {
	Params  CycleParams  `json:"params"`
	Focus   *CycleEntry  `json:"focus,omitempty"`
	Entries []CycleEntry `json:"entries"`
}
