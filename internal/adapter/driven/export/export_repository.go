package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jung-kurt/gofpdf"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
	"github.com/diillson/billing-usage-report-go/internal/domain/repository"
)

// CSVDelimiter separates fields of the exported CSV.
const CSVDelimiter = ';'

// ExportRepositoryImpl implementa o ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository cria uma nova implementação do ExportRepository.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// CSVHeader returns the header row: file, max, count, d1..d31.
func CSVHeader() []string {
	header := []string{"file", "max", "count"}
	for d := 1; d <= entity.HistogramDays; d++ {
		header = append(header, fmt.Sprintf("d%d", d))
	}
	return header
}

// ExportToCSV grava o relatório em {ano}{mês}_{label}.csv, separado por ';'.
func (r *ExportRepositoryImpl) ExportToCSV(report *entity.UsageReport, rows []entity.ReportRow, label, outputDir string) (string, error) {
	outputFilename, err := generateFilename(report.Period, label, outputDir, "csv")
	if err != nil {
		return "", err
	}

	err = writeFile(outputFilename, "CSV", func(w io.Writer) error {
		writer := csv.NewWriter(w)
		writer.Comma = CSVDelimiter

		if err := writer.Write(CSVHeader()); err != nil {
			return fmt.Errorf("error writing CSV header: %w", err)
		}
		for _, row := range rows {
			record := []string{row.File, strconv.Itoa(row.Max), strconv.Itoa(row.Count)}
			for _, v := range row.Days {
				record = append(record, strconv.Itoa(v))
			}
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("error writing CSV row: %w", err)
			}
		}

		writer.Flush()
		if err := writer.Error(); err != nil {
			return fmt.Errorf("error writing CSV file: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToJSON(report *entity.UsageReport, label, outputDir string) (string, error) {
	outputFilename, err := generateFilename(report.Period, label, outputDir, "json")
	if err != nil {
		return "", err
	}

	err = writeFile(outputFilename, "JSON", func(w io.Writer) error {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(report); err != nil {
			return fmt.Errorf("error encoding JSON data: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return filepath.Abs(outputFilename)
}

func (r *ExportRepositoryImpl) ExportToPDF(report *entity.UsageReport, rows []entity.ReportRow, label, outputDir string) (string, error) {
	outputFilename, err := generateFilename(report.Period, label, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	maxDayColor := [3]int{255, 230, 180}

	pdf.AddPage()
	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  Usage report %s", report.Period.Label())), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr("  "+report.Summary()), "", 1, "L", true, 0, "")
	pdf.Ln(6)

	const (
		fileWidth  = 52.0
		valueWidth = 12.0
		dayWidth   = 6.5
		rowHeight  = 6.0
	)

	maxDays := make(map[int]bool, len(report.Global.MaxDays))
	for _, d := range report.Global.MaxDays {
		maxDays[d] = true
	}

	pdf.SetFont("Arial", "B", 7)
	pdf.CellFormat(fileWidth, rowHeight, "file", "1", 0, "L", false, 0, "")
	pdf.CellFormat(valueWidth, rowHeight, "max", "1", 0, "C", false, 0, "")
	pdf.CellFormat(valueWidth, rowHeight, "count", "1", 0, "C", false, 0, "")
	for d := 1; d <= entity.HistogramDays; d++ {
		pdf.CellFormat(dayWidth, rowHeight, strconv.Itoa(d), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFillColor(maxDayColor[0], maxDayColor[1], maxDayColor[2])
	for _, row := range rows {
		isTotal := row.File == entity.TotalRowLabel
		style := ""
		if isTotal {
			style = "B"
		}
		pdf.SetFont("Arial", style, 6)

		name := row.File
		if len(name) > 45 {
			name = "..." + name[len(name)-42:]
		}
		pdf.CellFormat(fileWidth, rowHeight, tr(name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(valueWidth, rowHeight, strconv.Itoa(row.Max), "1", 0, "C", false, 0, "")
		pdf.CellFormat(valueWidth, rowHeight, strconv.Itoa(row.Count), "1", 0, "C", false, 0, "")
		for i, v := range row.Days {
			fill := isTotal && maxDays[i+1]
			pdf.CellFormat(dayWidth, rowHeight, strconv.Itoa(v), "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
	}

	if len(report.Errors) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 8, "Source errors")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 9)
		for _, e := range report.Errors {
			pdf.MultiCell(0, 5, tr(fmt.Sprintf("%s [%s]: %s", e.Source, e.Stage, e.Message)), "", "L", false)
		}
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportToPrometheus grava as métricas do relatório no formato textfile do
// node_exporter.
func (r *ExportRepositoryImpl) ExportToPrometheus(report *entity.UsageReport, label, outputDir string) (string, error) {
	outputFilename, err := generateFilename(report.Period, label, outputDir, "prom")
	if err != nil {
		return "", err
	}

	registry := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"period": report.Period.Label()}

	dayEntities := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "usage_report_day_entities",
		Help:        "Entities with usage on a day of the month.",
		ConstLabels: constLabels,
	}, []string{"source", "day"})
	sourceMax := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "usage_report_source_max",
		Help:        "Highest daily entity count of a source.",
		ConstLabels: constLabels,
	}, []string{"source"})
	sourceEntities := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "usage_report_source_entities",
		Help:        "Entities counted in a source.",
		ConstLabels: constLabels,
	}, []string{"source"})
	sourceFailed := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name:        "usage_report_source_failed",
		Help:        "1 when the source could not be read.",
		ConstLabels: constLabels,
	}, []string{"source"})
	totalMax := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "usage_report_total_max",
		Help:        "Highest daily entity count across all sources.",
		ConstLabels: constLabels,
	})
	totalEntities := prometheus.NewGauge(prometheus.GaugeOpts{
		Name:        "usage_report_total_entities",
		Help:        "Entities counted across all sources.",
		ConstLabels: constLabels,
	})

	for _, c := range []prometheus.Collector{dayEntities, sourceMax, sourceEntities, sourceFailed, totalMax, totalEntities} {
		if err := registry.Register(c); err != nil {
			return "", fmt.Errorf("error registering metric: %w", err)
		}
	}

	days := report.Period.DaysInMonth()
	for _, s := range report.Sources {
		for d := 1; d <= days; d++ {
			dayEntities.WithLabelValues(s.Source, strconv.Itoa(d)).Set(float64(s.Histogram[d-1]))
		}
		sourceMax.WithLabelValues(s.Source).Set(float64(s.PerSourceMax))
		sourceEntities.WithLabelValues(s.Source).Set(float64(s.EntityCount))
		failed := 0.0
		if s.Failed() {
			failed = 1
		}
		sourceFailed.WithLabelValues(s.Source).Set(failed)
	}
	for d := 1; d <= days; d++ {
		dayEntities.WithLabelValues(entity.TotalRowLabel, strconv.Itoa(d)).Set(float64(report.Global.TotalHistogram[d-1]))
	}
	totalMax.Set(float64(report.Global.TotalMax))
	totalEntities.Set(float64(report.Global.TotalEntityCount))

	if err := prometheus.WriteToTextfile(outputFilename, registry); err != nil {
		return "", fmt.Errorf("error writing Prometheus textfile: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// --- Funções Auxiliares ---

// generateFilename monta {ano}{mês}_{label}.{ext} e garante que o diretório exista.
// createFile opens a report file for writing.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// writeFile creates name, runs write on it and closes it. A failed close is
// returned like a failed write.
func writeFile(name, kind string, write func(io.Writer) error) error {
	file, err := createFile(name)
	if err != nil {
		return fmt.Errorf("error creating %s file: %w", kind, err)
	}
	if err := write(file); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error closing %s file: %w", kind, err)
	}
	return nil
}

func generateFilename(period entity.Period, label, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	filename := fmt.Sprintf("%s_%s.%s", period.FilePrefix(), label, ext)
	return filepath.Join(dir, filename), nil
}
