package usecase

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
	"github.com/diillson/billing-usage-report-go/internal/shared/types"
)

// Valores padrão do relatório.
const (
	DefaultPrefix       = "ZertoBilling"
	DefaultInnerArchive = "ZertoBilling.zip"
	DefaultReportName   = "zerto_usage"

	// NoneValue desativa o arquivo interno (--inner none) ou os exports (--report-type none).
	NoneValue = "none"
)

// SupportedReportTypes lists the accepted --report-type values.
var SupportedReportTypes = []string{"csv", "json", "pdf", "prom"}

// Settings is the fully resolved configuration of one run.
type Settings struct {
	Sources      []string
	Period       entity.Period
	Prefix       string
	InnerArchive string // vazio: o CSV fica direto no arquivo externo
	Layout       entity.RecordLayout
	ReportName   string
	ReportTypes  []string
	Dir          string
	S3Region     string
	S3Endpoint   string
	Chart        bool
}

// Target returns the name of the billing CSV for the period.
func (s Settings) Target() string {
	return s.Period.BillingFileName(s.Prefix)
}

// argsToConfig converts the CLI arguments to a Config so they can be
// overlaid like any other layer.
func argsToConfig(args *types.CLIArgs) *types.Config {
	if args == nil {
		return nil
	}
	return &types.Config{
		Sources:      args.Sources,
		Month:        args.Month,
		Year:         args.Year,
		Prefix:       args.Prefix,
		InnerArchive: args.InnerArchive,
		SkipRows:     args.SkipRows,
		ReportName:   args.ReportName,
		ReportType:   args.ReportType,
		Dir:          args.Dir,
	}
}

// ResolveSettings merges the configuration layers (flags > config file >
// environment > defaults) and validates the result.
func ResolveSettings(args *types.CLIArgs, fileCfg, envCfg *types.Config, now time.Time) (Settings, error) {
	cfg := envCfg.Overlay(fileCfg).Overlay(argsToConfig(args))

	if len(cfg.Sources) == 0 {
		return Settings{}, types.ErrNoSources
	}

	period, err := resolvePeriod(cfg.Month, cfg.Year, now)
	if err != nil {
		return Settings{}, err
	}

	layout, err := resolveLayout(cfg)
	if err != nil {
		return Settings{}, err
	}

	reportTypes, err := resolveReportTypes(cfg.ReportType)
	if err != nil {
		return Settings{}, err
	}

	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return Settings{}, fmt.Errorf("error resolving output directory: %w", err)
	}

	inner := withDefault(cfg.InnerArchive, DefaultInnerArchive)
	if strings.EqualFold(inner, NoneValue) {
		inner = ""
	}

	s := Settings{
		Sources:      cfg.Sources,
		Period:       period,
		Prefix:       withDefault(cfg.Prefix, DefaultPrefix),
		InnerArchive: inner,
		Layout:       layout,
		ReportName:   withDefault(cfg.ReportName, DefaultReportName),
		ReportTypes:  reportTypes,
		Dir:          absDir,
		S3Region:     cfg.S3Region,
		S3Endpoint:   cfg.S3Endpoint,
	}
	if args != nil {
		s.Chart = args.Chart
	}
	return s, nil
}

// resolvePeriod aplica o mês anterior como padrão. Um mês informado sem ano
// usa o ano corrente.
func resolvePeriod(month, year int, now time.Time) (entity.Period, error) {
	period := entity.DefaultPeriod(now)
	if month != 0 {
		period.Month = time.Month(month)
		period.Year = now.Year()
	}
	if year != 0 {
		period.Year = year
	}
	if err := period.Validate(); err != nil {
		return entity.Period{}, err
	}
	return period, nil
}

func resolveLayout(cfg *types.Config) (entity.RecordLayout, error) {
	layout := entity.DefaultRecordLayout()
	if cfg.SkipRows != nil {
		if *cfg.SkipRows < 0 {
			return entity.RecordLayout{}, fmt.Errorf("invalid skip rows %d: must not be negative", *cfg.SkipRows)
		}
		layout.SkipRows = *cfg.SkipRows
	}
	layout.EntityColumn = withDefault(cfg.EntityColumn, layout.EntityColumn)
	layout.FromColumn = withDefault(cfg.FromColumn, layout.FromColumn)
	layout.ToColumn = withDefault(cfg.ToColumn, layout.ToColumn)
	return layout, nil
}

func resolveReportTypes(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return []string{"csv"}, nil
	}

	var out []string
	for _, rt := range requested {
		rt = strings.ToLower(strings.TrimSpace(rt))
		switch {
		case rt == "":
			continue
		case rt == NoneValue:
			return nil, nil
		case !slices.Contains(SupportedReportTypes, rt):
			return nil, fmt.Errorf("%w: %s (expected one of %s)", types.ErrUnsupportedReport, rt, strings.Join(SupportedReportTypes, ", "))
		case !slices.Contains(out, rt):
			out = append(out, rt)
		}
	}
	return out, nil
}

func withDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
