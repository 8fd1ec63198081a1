// Package pdf genera el reporte de ventas de una tienda en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda + período    │  Fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  KPIs: Pedidos | Ingresos | Ticket medio | Promedio diario   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA DIARIA: Fecha | Pedidos | Monto                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOP PRODUCTOS: Producto | SKU | Cant. | Monto               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER                                                      │
//	└─────────────────────────────────────────────────────────────┘
//
// Las fuentes estándar (helvetica) no cubren cirílico: los textos se transliteran.
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kaspi-panel-api/internal/application/dto"
	"github.com/jhoicas/kaspi-panel-api/internal/application/ports"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/entity"
	"github.com/jhoicas/kaspi-panel-api/internal/domain/sales"
)

var _ ports.SalesReportGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 242, Green: 61, Blue: 45} // rojo Kaspi
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa ports.SalesReportGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	now func() time.Time
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{now: time.Now} }

// GenerateSalesReport genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateSalesReport(ctx context.Context, storeName string, rep *dto.SalesReport) ([]byte, error) {
	if rep == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Sales report", true).
		WithAuthor(Transliterate(storeName), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(storeName, rep, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(summaryRow(rep.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Ventas por día
	m.AddRows(sectionTitle("Prodazhi po dnyam"))
	m.AddRows(dailyHeaderRow())
	m.AddRows(dailyRows(rep.Daily)...)

	// Top productos
	if len(rep.TopProducts) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(sectionTitle("Top tovarov"))
		m.AddRows(productsHeaderRow())
		m.AddRows(productRows(rep.TopProducts)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(rep))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tienda + período (izq) y fecha de generación (der).
func headerRow(storeName string, rep *dto.SalesReport, now time.Time) core.Row {
	period := fmt.Sprintf("Period: %d dn.", rep.Days)
	if n := len(rep.Daily); n > 0 {
		period = fmt.Sprintf("Period: %s - %s", rep.Daily[0].Date, rep.Daily[n-1].Date)
	}
	return row.New(18).Add(
		col.New(8).Add(
			text.New(Transliterate(storeName), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(period, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("OTCHET O PRODAZHAKH", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Sformirovan: "+now.Format("02.01.2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// summaryRow: cuatro KPIs del período.
func summaryRow(s sales.Summary) core.Row {
	kpi := func(label, value string) core.Col {
		return col.New(3).Add(
			text.New(label, props.Text{Size: 7, Color: colorGray, Top: 1, Align: align.Center}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6, Align: align.Center}),
		)
	}
	return row.New(16).Add(
		kpi("Zakazov", fmt.Sprint(s.TotalOrders)),
		kpi("Vyruchka", money(s.TotalAmount)),
		kpi("Sredniy chek", money(s.AverageCheck)),
		kpi("V srednem za den", money(s.AveragePerDay)),
	)
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1}),
	))
}

// headerCell celda de cabecera de tabla con texto blanco.
func headerCell(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a,
		Color: colorWhite, Top: 1.5, Left: 1, Right: 1,
	}))
}

func dailyHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Data", 4, align.Left),
		headerCell("Zakazov", 4, align.Center),
		headerCell("Summa", 4, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// dailyRows: una fila por día de la serie.
func dailyRows(daily []entity.SalesOrder) []core.Row {
	result := make([]core.Row, 0, len(daily))
	for _, d := range daily {
		result = append(result, row.New(5).Add(
			col.New(4).Add(text.New(d.Date, props.Text{Size: 8, Top: 0.5, Left: 1})),
			col.New(4).Add(text.New(fmt.Sprint(d.Count), props.Text{Size: 8, Align: align.Center, Top: 0.5})),
			col.New(4).Add(text.New(money(d.Amount), props.Text{Size: 8, Align: align.Right, Top: 0.5, Right: 1})),
		))
	}
	return result
}

func productsHeaderRow() core.Row {
	return row.New(7).Add(
		headerCell("Tovar", 6, align.Left),
		headerCell("SKU", 2, align.Left),
		headerCell("Kol.", 1, align.Center),
		headerCell("Summa", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// productRows: una fila por producto del top.
func productRows(products []sales.ProductSales) []core.Row {
	result := make([]core.Row, 0, len(products))
	for _, p := range products {
		result = append(result, row.New(6).Add(
			col.New(6).Add(text.New(Transliterate(p.Name), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(p.SKU, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(fmt.Sprint(p.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(money(p.Amount), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func footerRow(rep *dto.SalesReport) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			fmt.Sprintf("Kaspi Panel - rezhim: %s - zakazov v otchete: %d", rep.Mode, len(rep.Orders)),
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// money monto en tenge sin decimales con separador de miles.
func money(d decimal.Decimal) string {
	return formatMoney(d.StringFixed(0)) + " KZT"
}

// formatMoney inserta espacios de miles en un string numérico sin decimales.
// Ej: "25000" → "25 000", "-1000000" → "-1 000 000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
