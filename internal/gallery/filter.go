package gallery

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/sdibella/vwap-gallery/internal/manifest"
)

var (
	// _YYYYMMDD-YYYYMMDD_ with the timeframe token that follows it in
	// generated filenames, e.g. "_20250623-20250915_1m_".
	dateRangeToken = regexp.MustCompile(`_\d{8}-\d{8}_(?:\d+m_)?`)

	// CONTRACT_YYYYMMDD-YYYYMMDD_Nm_ (or .ext) prefix of generated filenames.
	contractPrefix = regexp.MustCompile(`^([A-Z0-9]+)_\d{8}-\d{8}_\d+m(?:_|\.)`)

	timeframeToken = regexp.MustCompile(`_(\d+m)_`)
)

// excludedReports are hidden for every contract and timeframe.
var excludedReports = []string{
	"touch_sequence_stats.html",
	"touches_per_day_distribution.html",
	"vwap_events.html",
	"vwap_performance_all_events.html",
	"vwap_performance_crosses_only.html",
	"definitions_summary.html",
	"first_touch_time_distribution.html",
	"index.html",
}

// CleanFilenameForDisplay removes the first date-range token from name.
//
//	"NQU25_20250623-20250915_1m_daily_max_extensions.html" -> "NQU25_daily_max_extensions.html"
func CleanFilenameForDisplay(name string) string {
	loc := dateRangeToken.FindStringIndex(name)
	if loc == nil {
		return name
	}
	return name[:loc[0]] + "_" + name[loc[1]:]
}

// ShouldExcludeReport reports whether the cleaned name contains any
// denylisted report name.
func ShouldExcludeReport(name string) bool {
	cleaned := CleanFilenameForDisplay(name)
	for _, pattern := range excludedReports {
		if strings.Contains(cleaned, pattern) {
			return true
		}
	}
	return false
}

// DashboardLinks filters html paths for the selection and returns one link
// per surviving basename, in manifest order.
func DashboardLinks(paths []string, s Selection) []Link {
	links := make([]Link, 0, len(paths))
	seen := make(map[string]bool, len(paths))

	for _, p := range paths {
		name := basename(p)

		if ShouldExcludeReport(name) {
			continue
		}

		// Files copied in from another contract's folder. Names without
		// the generated prefix always pass.
		if m := contractPrefix.FindStringSubmatch(name); m != nil && m[1] != s.Contract {
			continue
		}

		if s.Timeframe != "" {
			fileTF, ok := fileTimeframe(p, name, s.Timeframe)
			if !ok {
				slog.Debug("filtered out (timeframe mismatch)", "path", p, "file_tf", fileTF, "selected", s.Timeframe)
				continue
			}
		}

		if seen[name] {
			slog.Debug("skipping duplicate", "file", name)
			continue
		}
		seen[name] = true

		links = append(links, Link{Href: p, Text: CleanFilenameForDisplay(name)})
	}
	return links
}

// fileTimeframe decides whether a file belongs to timeframe tf. An
// explicit _Nm_ token in the basename wins; otherwise the full path must
// contain _tf_. The returned string is the token, or "path".
func fileTimeframe(path, name, tf string) (string, bool) {
	if m := timeframeToken.FindStringSubmatch(name); m != nil {
		return m[1], m[1] == tf
	}
	return "path", strings.Contains(path, "_"+tf+"_")
}

func basename(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// DisplayReport renders the report for a complete selection, or the
// cleared view when the selection is incomplete or not in the manifest.
func DisplayReport(m manifest.Manifest, s Selection) ReportView {
	if !s.Complete() {
		return ClearReport()
	}
	r, ok := m.Lookup(s.Contract, s.Timeframe, s.DateRange)
	if !ok {
		return ClearReport()
	}

	links := DashboardLinks(r.HTML, s)
	return ReportView{
		Visible:           true,
		DashboardsVisible: len(links) > 0,
		Links:             links,
	}
}

// ClearReport is the no-selection view: placeholder shown, everything else
// hidden and empty.
func ClearReport() ReportView {
	return ReportView{Placeholder: true, Links: []Link{}}
}
