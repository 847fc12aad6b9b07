package entity

// TotalRowLabel is the file label of the aggregate report row.
const TotalRowLabel = "TOTAL"

// ReportRow is one line of the tabular report: a source or the TOTAL row.
type ReportRow struct {
	File  string       `json:"file"`
	Max   int          `json:"max"`
	Count int          `json:"count"`
	Days  DayHistogram `json:"days"`
}

// Rows returns one row per source, in input order, followed by the TOTAL row.
func (r *UsageReport) Rows() []ReportRow {
	rows := make([]ReportRow, 0, len(r.Sources)+1)
	for _, s := range r.Sources {
		rows = append(rows, ReportRow{
			File:  s.Source,
			Max:   s.PerSourceMax,
			Count: s.EntityCount,
			Days:  s.Histogram,
		})
	}
	return append(rows, ReportRow{
		File:  TotalRowLabel,
		Max:   r.Global.TotalMax,
		Count: r.Global.TotalEntityCount,
		Days:  r.Global.TotalHistogram,
	})
}
