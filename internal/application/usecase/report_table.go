package usecase

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"github.com/diillson/billing-usage-report-go/internal/domain/entity"
	"github.com/diillson/billing-usage-report-go/internal/shared/types"
)

// renderReportTable cria a tabela de exibição: uma linha por fonte e a
// linha TOTAL, com as colunas de dia limitadas ao tamanho do mês.
func (uc *UsageUseCase) renderReportTable(report *entity.UsageReport) types.TableInterface {
	days := report.Period.DaysInMonth()
	table := uc.console.CreateTable()

	table.AddColumn("file")
	table.AddColumn("max", types.AlignRight)
	table.AddColumn("count")
	for d := 1; d <= days; d++ {
		table.AddColumn(fmt.Sprintf("d%d", d))
	}

	for i, row := range report.Rows() {
		cells := make([]interface{}, 0, days+3)
		switch {
		case i == len(report.Sources):
			cells = append(cells,
				pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint(row.File),
				pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint(row.Max),
				pterm.NewStyle(pterm.FgGreen, pterm.Bold).Sprint(row.Count))
		case report.Sources[i].Failed():
			cells = append(cells,
				pterm.FgRed.Sprint(row.File),
				pterm.FgRed.Sprint("Error"),
				pterm.FgRed.Sprint(row.Count))
		default:
			cells = append(cells,
				pterm.FgMagenta.Sprint(row.File),
				strconv.Itoa(row.Max),
				strconv.Itoa(row.Count))
		}
		for d := 1; d <= days; d++ {
			cells = append(cells, dayCell(row, d, i == len(report.Sources), report.Global.TotalMax))
		}
		table.AddRow(cells...)
	}
	return table
}

// dayCell destaca em amarelo os dias do TOTAL que atingem o máximo.
func dayCell(row entity.ReportRow, day int, total bool, totalMax int) string {
	v := row.Days[day-1]
	if total && totalMax > 0 && v == totalMax {
		return pterm.FgYellow.Sprint(v)
	}
	return strconv.Itoa(v)
}
