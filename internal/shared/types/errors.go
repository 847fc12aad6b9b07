package types

import "errors"

var (
	ErrNoSources         = errors.New("no source archives given. Pass them as arguments or in the config file")
	ErrUnsupportedReport = errors.New("unsupported report type")
)
