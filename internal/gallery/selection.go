package gallery

import (
	"net/url"
	"sort"

	"github.com/sdibella/vwap-gallery/internal/manifest"
)

// Selection is the contract/timeframe/date-range choice. An empty field is
// unset; setting a level resets every level below it.
type Selection struct {
	Contract  string `json:"contract,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
	DateRange string `json:"date_range,omitempty"`
}

// Complete reports whether all three levels are set.
func (s Selection) Complete() bool {
	return s.Contract != "" && s.Timeframe != "" && s.DateRange != ""
}

// Query returns the URL parameters mirroring the selection. The legacy
// range parameter is never written.
func (s Selection) Query() url.Values {
	q := url.Values{}
	if s.Contract != "" {
		q.Set("contract", s.Contract)
	}
	if s.Timeframe != "" {
		q.Set("tf", s.Timeframe)
	}
	return q
}

// ReplaceURL builds the address-bar URL for path after a selection change.
func ReplaceURL(path string, s Selection) string {
	if path == "" {
		path = "/"
	}
	q := s.Query().Encode()
	if q == "" {
		return path
	}
	return path + "?" + q
}

// Contracts returns the manifest's contracts in lexicographic order.
func Contracts(m manifest.Manifest) []string {
	contracts := make([]string, 0, len(m))
	for c := range m {
		contracts = append(contracts, c)
	}
	sort.Strings(contracts)
	return contracts
}

// Timeframes returns the contract's timeframes ordered by leading integer
// ("1m" < "5m" < "15m"). ok is false when the contract is unset or not in
// the manifest, in which case the selector is disabled.
func Timeframes(m manifest.Manifest, contract string) (tfs []string, ok bool) {
	byTF, found := m[contract]
	if contract == "" || !found {
		return nil, false
	}
	tfs = make([]string, 0, len(byTF))
	for tf := range byTF {
		tfs = append(tfs, tf)
	}
	sort.Slice(tfs, func(i, j int) bool {
		a, aok := leadingInt(tfs[i])
		b, bok := leadingInt(tfs[j])
		if aok != bok {
			return aok // numeric keys first
		}
		if aok && a != b {
			return a < b
		}
		return tfs[i] < tfs[j]
	})
	return tfs, true
}

// DateRanges returns the date-range keys for contract/timeframe ordered by
// their first 8 characters (the YYYYMMDD start date).
func DateRanges(m manifest.Manifest, contract, timeframe string) []string {
	byRange := m[contract][timeframe]
	ranges := make([]string, 0, len(byRange))
	for r := range byRange {
		ranges = append(ranges, r)
	}
	sort.Slice(ranges, func(i, j int) bool {
		a, b := startKey(ranges[i]), startKey(ranges[j])
		if a != b {
			return a < b
		}
		return ranges[i] < ranges[j]
	})
	return ranges
}

// AutoSelectDateRange sets DateRange to the earliest-starting range for the
// selection's contract and timeframe, or clears it when there is none.
func AutoSelectDateRange(m manifest.Manifest, s Selection) Selection {
	s.DateRange = ""
	if s.Contract == "" || s.Timeframe == "" {
		return s
	}
	if ranges := DateRanges(m, s.Contract, s.Timeframe); len(ranges) > 0 {
		s.DateRange = ranges[0]
	}
	return s
}

func startKey(r string) string {
	if len(r) > 8 {
		return r[:8]
	}
	return r
}

// leadingInt parses the integer prefix of s, e.g. 15 for "15m".
func leadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	start := i
	n := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// Controller applies selection events against one manifest. A Controller
// is built per request from the values the page sends back.
type Controller struct {
	manifest manifest.Manifest
	sel      Selection
}

// NewController returns a controller with an empty selection.
func NewController(m manifest.Manifest) *Controller {
	return &Controller{manifest: m}
}

// Selection returns the current selection.
func (c *Controller) Selection() Selection {
	return c.sel
}

// Restore replaces the selection with one echoed back by the page.
func (c *Controller) Restore(s Selection) {
	c.sel = s
}

// FromQuery is the startup path. contract and tf are used only when both
// are non-empty, and are not checked against the manifest. A legacy range
// parameter is taken verbatim; otherwise a range is auto-selected.
func (c *Controller) FromQuery(q url.Values) View {
	contract, tf := q.Get("contract"), q.Get("tf")
	if contract == "" || tf == "" {
		return c.view(ClearReport())
	}

	c.sel = Selection{Contract: contract, Timeframe: tf}
	if r := q.Get("range"); r != "" {
		c.sel.DateRange = r
	} else {
		c.sel = AutoSelectDateRange(c.manifest, c.sel)
	}

	if c.sel.DateRange == "" {
		return c.view(ClearReport())
	}
	return c.view(DisplayReport(c.manifest, c.sel))
}

// OnContractChange sets the contract and resets timeframe and date range.
// The report is always cleared.
func (c *Controller) OnContractChange(contract string) View {
	c.sel = Selection{Contract: contract}
	return c.view(ClearReport())
}

// OnTimeframeChange sets the timeframe, auto-selects a date range and
// renders the report when one exists.
func (c *Controller) OnTimeframeChange(timeframe string) View {
	c.sel.Timeframe = timeframe
	c.sel = AutoSelectDateRange(c.manifest, c.sel)
	if c.sel.DateRange == "" {
		return c.view(ClearReport())
	}
	return c.view(DisplayReport(c.manifest, c.sel))
}

func (c *Controller) view(report ReportView) View {
	tfs, ok := Timeframes(c.manifest, c.sel.Contract)
	return View{
		Contracts:         Contracts(c.manifest),
		Timeframes:        tfs,
		TimeframeDisabled: !ok,
		Selection:         c.sel,
		Report:            report,
	}
}
