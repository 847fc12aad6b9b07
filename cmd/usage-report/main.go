package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/diillson/billing-usage-report-go/internal/adapter/driven/archive"
	"github.com/diillson/billing-usage-report-go/internal/adapter/driven/config"
	"github.com/diillson/billing-usage-report-go/internal/adapter/driven/export"
	"github.com/diillson/billing-usage-report-go/internal/adapter/driven/source"
	"github.com/diillson/billing-usage-report-go/internal/adapter/driving/cli"
	"github.com/diillson/billing-usage-report-go/internal/application/usecase"
	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
	"github.com/diillson/billing-usage-report-go/internal/domain/repository"
	"github.com/diillson/billing-usage-report-go/pkg/console"
	"github.com/diillson/billing-usage-report-go/pkg/version"
)

func main() {
	// Inicializa o aplicativo CLI
	app := cli.NewCLIApp(version.FormatVersion())

	// Inicializa os repositórios
	exportRepo := export.NewExportRepository()
	configRepo := config.NewConfigRepository()
	consoleImpl := console.NewConsole()

	// Inicializa o caso de uso
	usageUseCase := usecase.NewUsageUseCase(
		configRepo,
		exportRepo,
		consoleImpl,
		func(runID string, layout entity.RecordLayout) repository.ArchiveRepository {
			return archive.NewExtractor(runID, layout)
		},
		func(region, endpoint string) repository.SourceRepository {
			return source.NewSourceRepository(source.Options{Region: region, Endpoint: endpoint})
		},
	)

	// Define o caso de uso no aplicativo CLI
	app.SetUsageUseCase(usageUseCase)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Executa o aplicativo
	if err := app.Execute(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
