package usecase

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
	"github.com/diillson/billing-usage-report-go/internal/domain/repository"
	"github.com/diillson/billing-usage-report-go/internal/domain/usage"
	"github.com/diillson/billing-usage-report-go/internal/shared/types"
)

// Stages of a source failure that happen outside the archive.
const (
	StageFetch = "fetch"
	StageOpen  = "open"
	StageRead  = "read"
)

// DefaultEnvFile is loaded when no --env-file is given.
const DefaultEnvFile = ".env"

// ArchiveFactory builds the archive repository of one run.
type ArchiveFactory func(runID string, layout entity.RecordLayout) repository.ArchiveRepository

// SourceFactory builds the source repository of one run.
type SourceFactory func(region, endpoint string) repository.SourceRepository

// UsageUseCase handles the billing usage report.
type UsageUseCase struct {
	configRepo repository.ConfigRepository
	exportRepo repository.ExportRepository
	console    types.ConsoleInterface
	newArchive ArchiveFactory
	newSource  SourceFactory

	now      func() time.Time
	newRunID func() string
}

// NewUsageUseCase creates a new usage use case.
func NewUsageUseCase(
	configRepo repository.ConfigRepository,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
	newArchive ArchiveFactory,
	newSource SourceFactory,
) *UsageUseCase {
	return &UsageUseCase{
		configRepo: configRepo,
		exportRepo: exportRepo,
		console:    console,
		newArchive: newArchive,
		newSource:  newSource,
		now:        time.Now,
		newRunID:   uuid.NewString,
	}
}

// LoadSettings lê o arquivo de configuração e o ambiente e resolve as
// configurações da execução.
func (uc *UsageUseCase) LoadSettings(args *types.CLIArgs) (Settings, error) {
	var fileCfg *types.Config
	if args.ConfigFile != "" {
		cfg, err := uc.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return Settings{}, err
		}
		fileCfg = cfg
	}

	envFile := args.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	envCfg, err := uc.configRepo.LoadEnvironment(envFile)
	if err != nil {
		return Settings{}, err
	}

	return ResolveSettings(args, fileCfg, envCfg, uc.now())
}

// RunReport executa o relatório completo: agrega, exibe e exporta.
func (uc *UsageUseCase) RunReport(ctx context.Context, args *types.CLIArgs) error {
	settings, err := uc.LoadSettings(args)
	if err != nil {
		return err
	}

	report, err := uc.Aggregate(ctx, settings)
	if err != nil {
		return err
	}

	if !args.Quiet {
		uc.console.Print(uc.renderReportTable(report).Render())
	}
	uc.console.Println(report.Summary())

	if settings.Chart {
		days := report.Period.DaysInMonth()
		uc.console.DisplayDayChart(report.Global.TotalHistogram.Values(days),
			fmt.Sprintf("Entities in use per day, %s", report.Period.Label()))
	}

	return uc.exportReport(report, settings)
}

// Aggregate processa as fontes em sequência e monta o relatório. Uma fonte
// com falha entra no relatório com uma linha zerada e um SourceError.
func (uc *UsageUseCase) Aggregate(ctx context.Context, s Settings) (*entity.UsageReport, error) {
	runID := uc.newRunID()
	archiveRepo := uc.newArchive(runID, s.Layout)
	defer func() {
		if err := archiveRepo.Close(); err != nil {
			uc.console.LogWarning("Failed to clean up temporary files: %s", err)
		}
	}()
	sourceRepo := uc.newSource(s.S3Region, s.S3Endpoint)

	target := s.Target()
	uc.console.LogInfo("Reading %s from %d source(s) for %s", target, len(s.Sources), s.Period.Label())

	agg := usage.NewAggregator(s.Period)
	progress := uc.console.ProgressWithTotal(len(s.Sources))
	for _, src := range s.Sources {
		if err := ctx.Err(); err != nil {
			progress.Stop()
			return nil, err
		}
		uc.processSource(ctx, sourceRepo, archiveRepo, agg, src, s.InnerArchive, target)
		progress.Increment()
	}
	progress.Stop()

	report := &entity.UsageReport{
		RunID:       runID,
		Period:      s.Period,
		Sources:     agg.Sources(),
		Global:      agg.Summarize(),
		Errors:      agg.Errors(),
		GeneratedAt: uc.now().UTC(),
	}

	if n := report.Global.FailedSources; n > 0 {
		uc.console.LogWarning("%d of %d source(s) could not be read", n, report.Global.SourceCount)
	}
	return report, nil
}

// processSource lê uma única fonte e registra o resultado no agregador.
func (uc *UsageUseCase) processSource(
	ctx context.Context,
	sourceRepo repository.SourceRepository,
	archiveRepo repository.ArchiveRepository,
	agg *usage.Aggregator,
	src, inner, target string,
) {
	status := uc.console.Status(fmt.Sprintf("Fetching %s...", src))
	localPath, release, err := sourceRepo.Fetch(ctx, src)
	if err != nil {
		status.Stop()
		uc.console.LogWarning("Error fetching %s: %s", src, err)
		agg.AddFailure(src, StageFetch, err)
		return
	}
	defer release()

	status.Update(fmt.Sprintf("Reading %s from %s...", target, src))
	stream, err := archiveRepo.OpenRecords(ctx, localPath, inner, target)
	if err != nil {
		status.Stop()
		uc.console.LogWarning("Error extract %s or %s from %s: %s", inner, target, src, err)
		agg.AddFailure(src, usage.FailureStage(err, StageOpen), err)
		return
	}

	tally, err := usage.NewHistogramBuilder(agg.Period()).Build(stream)
	status.Stop()
	if closeErr := stream.Close(); closeErr != nil {
		uc.console.LogWarning("Error closing %s: %s", src, closeErr)
	}
	if err != nil {
		uc.console.LogWarning("Error reading %s from %s: %s", target, src, err)
		agg.AddFailure(src, StageRead, err)
		return
	}

	if tally.Skipped > 0 {
		uc.console.LogWarning("%s: skipped %d invalid record(s), first: %s", src, tally.Skipped, tally.RecordErrors[0])
	}
	agg.Add(usage.SummarizeSource(src, tally))
}

// exportReport grava os relatórios solicitados. Falhar em gravar um
// relatório pedido é fatal.
func (uc *UsageUseCase) exportReport(report *entity.UsageReport, s Settings) error {
	if len(s.ReportTypes) == 0 {
		return nil
	}

	rows := report.Rows()
	for _, reportType := range s.ReportTypes {
		var (
			path string
			err  error
		)
		switch reportType {
		case "csv":
			path, err = uc.exportRepo.ExportToCSV(report, rows, s.ReportName, s.Dir)
		case "json":
			path, err = uc.exportRepo.ExportToJSON(report, s.ReportName, s.Dir)
		case "pdf":
			path, err = uc.exportRepo.ExportToPDF(report, rows, s.ReportName, s.Dir)
		case "prom":
			path, err = uc.exportRepo.ExportToPrometheus(report, s.ReportName, s.Dir)
		default:
			err = fmt.Errorf("%w: %s", types.ErrUnsupportedReport, reportType)
		}
		if err != nil {
			uc.console.LogError("Failed to export to %s: %s", reportType, err)
			return fmt.Errorf("export %s: %w", reportType, err)
		}
		uc.console.LogSuccess("Successfully exported to %s: %s (%s)", reportType, path, fileSize(path))
	}
	return nil
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "unknown size"
	}
	return humanize.Bytes(uint64(info.Size()))
}
