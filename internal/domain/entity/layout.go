package entity

// RecordLayout describes the layout of a billing CSV.
type RecordLayout struct {
	// SkipRows is the number of lines before the header row.
	SkipRows     int    `json:"skip_rows"`
	EntityColumn string `json:"entity_column"`
	FromColumn   string `json:"from_column"`
	ToColumn     string `json:"to_column"`
}

// DefaultRecordLayout matches the Zerto billing export: one title line, then
// a header with " VM (Unique ID)", " From Date", " To Date", " Total Days".
func DefaultRecordLayout() RecordLayout {
	return RecordLayout{
		SkipRows:     1,
		EntityColumn: "VM (Unique ID)",
		FromColumn:   "From Date",
		ToColumn:     "To Date",
	}
}
