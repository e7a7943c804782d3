package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
)

var (
	accent  = lipgloss.Color("#D97706")
	dim     = lipgloss.Color("#6B7280")
	danger  = lipgloss.Color("#EF4444")
	success = lipgloss.Color("#22C55E")

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	dimStyle    = lipgloss.NewStyle().Foreground(dim)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(accent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numStyle    = cellStyle.Align(lipgloss.Right)
	warnStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	okStyle     = lipgloss.NewStyle().Foreground(success).Bold(true)
)

// RenderPreview tabla de una orden: línea original, producto atómico, cantidad, precio e ingreso asignado.
func RenderPreview(orderNo string, lines []dto.SalesPreviewLineResponse) string {
	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		for i, it := range l.Items {
			source := ""
			if i == 0 {
				source = fmt.Sprintf("%s ×%d @ %s", l.Description, l.Quantity, l.UnitPrice.String())
			}
			rows = append(rows, []string{
				source,
				it.Name,
				strconv.Itoa(it.Quantity),
				it.UnitPrice.StringFixed(2),
				it.Revenue.StringFixed(2),
			})
		}
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers("LÍNEA", "PRODUCTO", "CANT", "PRECIO U.", "INGRESO").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 2:
				return numStyle
			default:
				return cellStyle
			}
		})
	return titleStyle.Render("Orden "+orderNo) + "\n" + t.Render()
}

// RenderSummary resumen de una importación con productos creados y sobrevendidos.
func RenderSummary(s *dto.ImportSummaryResponse) string {
	var b strings.Builder
	b.WriteString(okStyle.Render(fmt.Sprintf("%d órdenes creadas", s.Created)))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  ·  %d omitidas  ·  %d ítems", s.Skipped, s.Items)))
	b.WriteString("\n")
	if len(s.SkippedOrderNos) > 0 {
		b.WriteString(dimStyle.Render("omitidas: " + strings.Join(s.SkippedOrderNos, ", ")))
		b.WriteString("\n")
	}
	if len(s.CreatedProducts) > 0 {
		b.WriteString(titleStyle.Render("Productos nuevos: "))
		b.WriteString(strings.Join(s.CreatedProducts, ", "))
		b.WriteString("\n")
	}
	if len(s.Oversold) > 0 {
		rows := make([][]string, 0, len(s.Oversold))
		for _, o := range s.Oversold {
			rows = append(rows, []string{o.Name, strconv.Itoa(o.Quantity)})
		}
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(dimStyle).
			Headers("SOBREVENDIDO", "CANT").
			Rows(rows...).
			StyleFunc(func(row, col int) lipgloss.Style {
				switch {
				case row == table.HeaderRow:
					return headerStyle
				case col == 1:
					return numStyle.Foreground(danger)
				default:
					return cellStyle
				}
			})
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d productos con cantidad negativa", len(s.Oversold))))
		b.WriteString("\n")
		b.WriteString(t.Render())
		b.WriteString("\n")
	}
	return b.String()
}
