package gallery

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sdibella/vwap-gallery/internal/manifest"
)

func TestCleanFilenameForDisplay(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"date range and timeframe", "NQU25_20250623-20250915_1m_daily_max_extensions.html", "NQU25_daily_max_extensions.html"},
		{"end to end example", "ES_20250101-20250201_1m_dashboard.html", "ES_dashboard.html"},
		{"date range without timeframe", "NQU25_20250623-20250915_summary.html", "NQU25_summary.html"},
		{"only first match", "A_20250101-20250201_B_20250301-20250401_c.html", "A_B_20250301-20250401_c.html"},
		{"no date range", "daily_max_extensions.html", "daily_max_extensions.html"},
		{"short digits", "A_2025010-20250201_x.html", "A_2025010-20250201_x.html"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFilenameForDisplay(tt.in); got != tt.want {
				t.Errorf("CleanFilenameForDisplay(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestShouldExcludeReport(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ABC_index.html", true},
		{"index.html", true},
		{"NQU25_20250623-20250915_1m_vwap_events.html", true},
		{"NQU25_20250623-20250915_1m_touch_sequence_stats.html", true},
		{"first_touch_time_distribution.html", true},
		{"NQU25_20250623-20250915_1m_definitions_summary.html", true},
		{"NQU25_20250623-20250915_1m_dashboard.html", false},
		{"daily_max_extensions.html", false},
		{"vwap_events.csv", false},
	}
	for _, tt := range tests {
		if got := ShouldExcludeReport(tt.in); got != tt.want {
			t.Errorf("ShouldExcludeReport(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDashboardLinks(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		sel   Selection
		want  []Link
	}{
		{
			name: "excluded reports dropped",
			paths: []string{
				"reports/NQU25_20250623-20250915_1m/NQU25_20250623-20250915_1m_index.html",
				"reports/NQU25_20250623-20250915_1m/dashboards/NQU25_20250623-20250915_1m_dashboard.html",
			},
			sel:  Selection{Contract: "NQU25", Timeframe: "1m"},
			want: []Link{{Href: "reports/NQU25_20250623-20250915_1m/dashboards/NQU25_20250623-20250915_1m_dashboard.html", Text: "NQU25_dashboard.html"}},
		},
		{
			name:  "contract mismatch dropped regardless of timeframe",
			paths: []string{"reports/NQU25_20250101-20250201_5m/MGCZ25_20250101-20250201_5m_dashboard.html"},
			sel:   Selection{Contract: "NQU25"},
			want:  []Link{},
		},
		{
			name:  "contract mismatch with extension suffix",
			paths: []string{"reports/x/MGCZ25_20250101-20250201_5m.html"},
			sel:   Selection{Contract: "NQU25", Timeframe: "5m"},
			want:  []Link{},
		},
		{
			name:  "files without the prefix are never contract-filtered",
			paths: []string{"reports/NQU25_20250101-20250201_5m/MGCZ25_dashboard_5m_.html"},
			sel:   Selection{Contract: "NQU25", Timeframe: "5m"},
			want:  []Link{{Href: "reports/NQU25_20250101-20250201_5m/MGCZ25_dashboard_5m_.html", Text: "MGCZ25_dashboard_5m_.html"}},
		},
		{
			name: "embedded timeframe token wins over path",
			paths: []string{
				"reports/NQU25_20250101-20250201_5m/NQU25_20250101-20250201_30m_dashboard.html",
				"reports/NQU25_20250101-20250201_30m/NQU25_20250101-20250201_5m_dashboard.html",
			},
			sel:  Selection{Contract: "NQU25", Timeframe: "5m"},
			want: []Link{{Href: "reports/NQU25_20250101-20250201_30m/NQU25_20250101-20250201_5m_dashboard.html", Text: "NQU25_dashboard.html"}},
		},
		{
			// A folder suffix like "_5m/" is not "_5m_", so the third path fails.
			name: "path decides when basename has no timeframe",
			paths: []string{
				"reports/NQU25_5m_batch/daily_max_extensions.html",
				"reports/NQU25_15m_batch/hold_fail.html",
				"reports/NQU25_20250101-20250201_5m/hold_fail.html",
			},
			sel:  Selection{Contract: "NQU25", Timeframe: "5m"},
			want: []Link{{Href: "reports/NQU25_5m_batch/daily_max_extensions.html", Text: "daily_max_extensions.html"}},
		},
		{
			name: "duplicates by basename keep the first",
			paths: []string{
				"reports/run_5m_a/NQU25_dashboard.html",
				"reports/run_5m_b/dashboards/NQU25_dashboard.html",
			},
			sel:  Selection{Contract: "NQU25", Timeframe: "5m"},
			want: []Link{{Href: "reports/run_5m_a/NQU25_dashboard.html", Text: "NQU25_dashboard.html"}},
		},
		{
			name:  "no timeframe selected keeps everything else",
			paths: []string{"a/b_15m_c.html"},
			sel:   Selection{Contract: "NQU25"},
			want:  []Link{{Href: "a/b_15m_c.html", Text: "b_15m_c.html"}},
		},
		{
			name:  "empty input",
			paths: nil,
			sel:   Selection{Contract: "NQU25", Timeframe: "1m"},
			want:  []Link{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DashboardLinks(tt.paths, tt.sel)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DashboardLinks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDisplayReport(t *testing.T) {
	m := manifest.Manifest{
		"ES": {"1m": {
			"20250101-20250201": {HTML: []string{"ES_20250101-20250201_1m_dashboard.html"}},
			"20250301-20250401": {HTML: []string{"ES_20250301-20250401_1m_index.html"}},
		}},
	}

	tests := []struct {
		name string
		sel  Selection
		want ReportView
	}{
		{
			name: "complete selection",
			sel:  Selection{Contract: "ES", Timeframe: "1m", DateRange: "20250101-20250201"},
			want: ReportView{Visible: true, DashboardsVisible: true, Links: []Link{{Href: "ES_20250101-20250201_1m_dashboard.html", Text: "ES_dashboard.html"}}},
		},
		{
			name: "everything filtered hides dashboards",
			sel:  Selection{Contract: "ES", Timeframe: "1m", DateRange: "20250301-20250401"},
			want: ReportView{Visible: true, Links: []Link{}},
		},
		{
			name: "incomplete selection",
			sel:  Selection{Contract: "ES", Timeframe: "1m"},
			want: ClearReport(),
		},
		{
			name: "absent record",
			sel:  Selection{Contract: "ES", Timeframe: "1m", DateRange: "19990101-19990201"},
			want: ClearReport(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, DisplayReport(m, tt.sel)); diff != "" {
				t.Errorf("DisplayReport mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClearReport(t *testing.T) {
	r := ClearReport()
	if r.Visible || r.DashboardsVisible || !r.Placeholder || len(r.Links) != 0 {
		t.Errorf("unexpected cleared view %+v", r)
	}
}
