package gallery

// View models for page and fragment responses

// View is everything the selector form and report panel need.
type View struct {
	Contracts         []string   `json:"contracts"`
	Timeframes        []string   `json:"timeframes"`
	TimeframeDisabled bool       `json:"timeframe_disabled"`
	Selection         Selection  `json:"selection"`
	Report            ReportView `json:"report"`
}

// ReportView mirrors the visibility of the report panel elements.
type ReportView struct {
	Visible           bool   `json:"visible"`            // report-content shown
	Placeholder       bool   `json:"placeholder"`        // no-selection shown
	DashboardsVisible bool   `json:"dashboards_visible"` // dashboards-section shown
	Links             []Link `json:"links"`
}

// Link is one rendered dashboard link. Links open in a new browsing
// context with rel="noopener noreferrer".
type Link struct {
	Href string `json:"href"`
	Text string `json:"text"`
}
