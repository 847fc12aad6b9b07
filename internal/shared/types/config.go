package types

// Config represents the application configuration that can be loaded from a file
// or from USAGE_REPORT_* environment variables.
type Config struct {
	Sources      []string `json:"sources" yaml:"sources" toml:"sources"`
	Month        int      `json:"month" yaml:"month" toml:"month"`
	Year         int      `json:"year" yaml:"year" toml:"year"`
	Prefix       string   `json:"prefix" yaml:"prefix" toml:"prefix"`
	InnerArchive string   `json:"inner_archive" yaml:"inner_archive" toml:"inner_archive"`
	SkipRows     *int     `json:"skip_rows" yaml:"skip_rows" toml:"skip_rows"`
	EntityColumn string   `json:"entity_column" yaml:"entity_column" toml:"entity_column"`
	FromColumn   string   `json:"from_column" yaml:"from_column" toml:"from_column"`
	ToColumn     string   `json:"to_column" yaml:"to_column" toml:"to_column"`
	ReportName   string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType   []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir          string   `json:"dir" yaml:"dir" toml:"dir"`
	S3Region     string   `json:"s3_region" yaml:"s3_region" toml:"s3_region"`
	S3Endpoint   string   `json:"s3_endpoint" yaml:"s3_endpoint" toml:"s3_endpoint"`
}

// Overlay returns a copy of c with the non-zero fields of over applied on top.
func (c *Config) Overlay(over *Config) *Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if over == nil {
		return &out
	}
	if len(over.Sources) > 0 {
		out.Sources = over.Sources
	}
	if over.Month != 0 {
		out.Month = over.Month
	}
	if over.Year != 0 {
		out.Year = over.Year
	}
	if over.SkipRows != nil {
		out.SkipRows = over.SkipRows
	}
	if len(over.ReportType) > 0 {
		out.ReportType = over.ReportType
	}
	setString(&out.Prefix, over.Prefix)
	setString(&out.InnerArchive, over.InnerArchive)
	setString(&out.EntityColumn, over.EntityColumn)
	setString(&out.FromColumn, over.FromColumn)
	setString(&out.ToColumn, over.ToColumn)
	setString(&out.ReportName, over.ReportName)
	setString(&out.Dir, over.Dir)
	setString(&out.S3Region, over.S3Region)
	setString(&out.S3Endpoint, over.S3Endpoint)
	return &out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
