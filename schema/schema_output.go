package schema

// GetFitLabel returns a plain text label for the goodness of a trend fit.
func GetFitLabel(rSquared float64) string {
	switch {
	case rSquared >= 0.7:
		return "Strong"
	case rSquared >= 0.4:
		return "Moderate"
	case rSquared >= 0.1:
		return "Weak"
	default:
		return "None"
	}
}

// EnrichedFit adds presentation data to a TrendFit.
type EnrichedFit struct {
	Label string `json:"label"`
	TrendFit
}

// EnrichFits adds labels to a list of fits.
func EnrichFits(fits ...TrendFit) []EnrichedFit {
	output := make([]EnrichedFit, len(fits))
	for i, f := range fits {
		output[i] = EnrichedFit{
			Label:    GetFitLabel(f.RSquared),
			TrendFit: f,
		}
	}
	return output
}

// OnsetReport is the JSON document written for an onset run.
type OnsetReport struct {
	Fits       []EnrichedFit  `json:"fits"`
	Rejected   map[string]int `json:"rejected"`
	TotalCells int            `json:"total_cells"`
	Rows       []OnsetRow     `json:"rows"`
}

// NewOnsetReport flattens a table into its JSON document. Limit caps the rows
// when positive.
func NewOnsetReport(table *OnsetTable, limit int) OnsetReport {
	rows := table.Rows()
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	rejected := make(map[string]int, len(AllRejectReasons))
	for _, reason := range AllRejectReasons {
		rejected[string(reason)] = table.Rejected[reason]
	}
	return OnsetReport{
		Fits:       EnrichFits(table.Runoff, table.Ripening),
		Rejected:   rejected,
		TotalCells: table.TotalCells,
		Rows:       rows,
	}
}
