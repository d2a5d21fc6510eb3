package templates

type DashboardProps struct {
	Title      string
	Heading    string
	Categories []string
	Selected   string
}

// chartRows lays the four chart canvases out two per row.
var chartRows = [][]string{
	{"sales-trend", "revenue-trend"},
	{"top-products", "region-sales"},
}

// initialSignals seeds the Datastar store. _charts stays in the browser and
// is filled by /sse/charts.
func initialSignals(p DashboardProps) map[string]any {
	return map[string]any{
		"category": p.Selected,
		"_charts":  map[string]any{},
	}
}
