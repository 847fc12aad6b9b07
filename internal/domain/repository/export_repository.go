package repository

import (
	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
)

type ExportRepository interface {
	ExportToCSV(report *entity.UsageReport, rows []entity.ReportRow, label, outputDir string) (string, error)
	ExportToJSON(report *entity.UsageReport, label, outputDir string) (string, error)
	ExportToPDF(report *entity.UsageReport, rows []entity.ReportRow, label, outputDir string) (string, error)
	ExportToPrometheus(report *entity.UsageReport, label, outputDir string) (string, error)
}
