package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/tps-tools/metrics-atlas/pkg/models/domain"
)

const pageBodyWidth = 190.0

// Render draws the composed report into a PDF document, fully in memory.
// Chart failures degrade to visible placeholders; the document itself
// always renders.
func Render(ctx context.Context, report *domain.Report) ([]byte, error) {
	logger := zerolog.Ctx(ctx)

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(report.Title, true)
	doc.AliasNbPages("")
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFooterFunc(func() {
		doc.SetY(-15)
		doc.SetFont("Helvetica", "I", 8)
		footer := fmt.Sprintf("Generated %s / page %d of {nb}",
			report.GeneratedAt.Format("2006-01-02 15:04"), doc.PageNo())
		doc.CellFormat(0, 10, footer, "", 0, "C", false, 0, "")
	})

	renderCover(doc, tr, report)

	chartIndex := 0
	for _, section := range report.Sections {
		renderSectionTitle(doc, tr, section.Title)
		for _, block := range section.Blocks {
			switch block.Kind {
			case domain.BlockText:
				renderText(doc, tr, block.Text)
			case domain.BlockTable:
				renderTable(doc, tr, block.Table)
			case domain.BlockChart:
				chartIndex++
				renderChart(doc, tr, logger, block.Chart, chartIndex)
			}
		}
		doc.Ln(6)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func renderCover(doc *fpdf.Fpdf, tr func(string) string, report *domain.Report) {
	doc.AddPage()
	doc.SetFont("Helvetica", "B", 22)
	doc.CellFormat(0, 14, tr(report.Title), "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 11)
	period := fmt.Sprintf("%s to %s (%d days)",
		report.Period.Start.Format("2006-01-02"),
		report.Period.End.Format("2006-01-02"),
		report.Period.Duration)
	doc.CellFormat(0, 8, period, "", 1, "C", false, 0, "")
	doc.Ln(4)
}

func renderSectionTitle(doc *fpdf.Fpdf, tr func(string) string, title string) {
	if doc.GetY() > 240 {
		doc.AddPage()
	}
	doc.SetFont("Helvetica", "B", 14)
	doc.SetFillColor(235, 235, 235)
	doc.CellFormat(0, 9, tr(title), "", 1, "L", true, 0, "")
	doc.Ln(2)
}

func renderText(doc *fpdf.Fpdf, tr func(string) string, text string) {
	doc.SetFont("Helvetica", "", 10)
	doc.MultiCell(0, 5.5, tr(text), "", "L", false)
	doc.Ln(1)
}

func renderTable(doc *fpdf.Fpdf, tr func(string) string, table *domain.Table) {
	if table == nil || len(table.Columns) == 0 {
		return
	}
	colWidth := pageBodyWidth / float64(len(table.Columns))

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(225, 225, 225)
	for _, col := range table.Columns {
		doc.CellFormat(colWidth, 7, tr(col), "1", 0, "L", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 10)
	for _, row := range table.Rows {
		if doc.GetY() > 265 {
			doc.AddPage()
		}
		for i := range table.Columns {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			doc.CellFormat(colWidth, 6.5, tr(cell), "1", 0, "L", false, 0, "")
		}
		doc.Ln(-1)
	}
	doc.Ln(2)
}

func renderChart(doc *fpdf.Fpdf, tr func(string) string, logger *zerolog.Logger, c *domain.Chart, index int) {
	png, ok, err := renderChartPNG(c)
	if err != nil {
		logger.Debug().Err(err).Str("chart", c.Title).Msg("chart rendering failed")
	}
	if err != nil || !ok {
		renderText(doc, tr, fmt.Sprintf("%s: — (no chartable data)", c.Title))
		return
	}

	name := fmt.Sprintf("chart-%d", index)
	doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	if doc.GetY() > 190 {
		doc.AddPage()
	}
	doc.ImageOptions(name, 10, doc.GetY(), pageBodyWidth, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	doc.Ln(3)
}
