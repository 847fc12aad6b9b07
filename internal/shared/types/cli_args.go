package types

// CLIArgs represents the command-line arguments.
// Zero values mean "not set" so the config file and environment can fill them.
type CLIArgs struct {
	ConfigFile   string
	EnvFile      string
	Sources      []string
	Month        int
	Year         int
	Prefix       string
	InnerArchive string
	SkipRows     *int
	ReportName   string
	ReportType   []string
	Dir          string
	Chart        bool
	Quiet        bool
}
