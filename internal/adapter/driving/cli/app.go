package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/diillson/billing-usage-report-go/internal/application/usecase"
	"github.com/diillson/billing-usage-report-go/internal/shared/types"
)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd      *cobra.Command
	usageUseCase *usecase.UsageUseCase
	version      string
}

// NewCLIApp cria uma nova aplicação CLI. versionStr é a versão formatada,
// ver version.FormatVersion.
func NewCLIApp(versionStr string) *CLIApp {
	app := &CLIApp{
		version: versionStr,
	}

	rootCmd := &cobra.Command{
		Use:   "usage-report [flags] SOURCE...",
		Short: "Billing usage report from nested billing archives",
		Long: `Reads the billing CSV of a month from each source archive (local path or
s3://bucket/key), builds a per-day histogram of entities in use and prints the
peak usage of the month. Sources that cannot be read are reported and count as zero.`,
		Version:       versionStr,
		RunE:          app.runCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{printf "Billing Usage Report version: %s\n" .Version}}`)

	// Adiciona flags de linha de comando
	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.String("env-file", "", "Path to a .env file with USAGE_REPORT_* defaults (default: .env)")
	flags.IntP("month", "m", 0, "Billing month 1-12 (default: previous month)")
	flags.IntP("year", "y", 0, "Billing year (default: year of the previous month)")
	flags.StringP("report-name", "n", "", "Base name for the report files (default: "+usecase.DefaultReportName+")")
	flags.StringSliceP("report-type", "t", nil, "Report types: csv, json, pdf, prom or none (default: csv)")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.String("prefix", "", "Prefix of the billing CSV name (default: "+usecase.DefaultPrefix+")")
	flags.String("inner", "", "Name of the inner archive, or none when the CSV is in the outer archive (default: "+usecase.DefaultInnerArchive+")")
	flags.Int("skip-rows", 1, "Preamble rows before the CSV header")
	flags.Bool("chart", false, "Display the daily usage of the month as a chart")
	flags.BoolP("quiet", "q", false, "Only print the summary line and export messages")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute(ctx context.Context) error {
	return app.rootCmd.ExecuteContext(ctx)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
// Flags that were not given stay at their zero value.
func (app *CLIApp) parseArgs(sources []string) (*types.CLIArgs, error) {
	flags := app.rootCmd.Flags()

	configFile, _ := flags.GetString("config-file")
	envFile, _ := flags.GetString("env-file")
	month, _ := flags.GetInt("month")
	year, _ := flags.GetInt("year")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	prefix, _ := flags.GetString("prefix")
	inner, _ := flags.GetString("inner")
	chart, _ := flags.GetBool("chart")
	quiet, _ := flags.GetBool("quiet")

	var skipRows *int
	if flags.Changed("skip-rows") {
		n, err := flags.GetInt("skip-rows")
		if err != nil {
			return nil, err
		}
		skipRows = &n
	}

	args := &types.CLIArgs{
		ConfigFile:   configFile,
		EnvFile:      envFile,
		Sources:      sources,
		Month:        month,
		Year:         year,
		Prefix:       prefix,
		InnerArchive: inner,
		SkipRows:     skipRows,
		ReportName:   reportName,
		ReportType:   reportType,
		Dir:          dir,
		Chart:        chart,
		Quiet:        quiet,
	}

	return args, nil
}

// runCommand é o ponto de entrada principal para o comando CLI.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	// Analisa os argumentos da linha de comando
	cliArgs, err := app.parseArgs(args)
	if err != nil {
		return err
	}

	if !cliArgs.Quiet {
		displayWelcomeBanner(app.version)
	}

	return app.usageUseCase.RunReport(cmd.Context(), cliArgs)
}

// SetUsageUseCase sets the usage use case for the CLI app.
func (app *CLIApp) SetUsageUseCase(useCase *usecase.UsageUseCase) {
	app.usageUseCase = useCase
}
