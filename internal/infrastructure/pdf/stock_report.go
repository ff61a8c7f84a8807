// Package pdf genera el reporte de stock con precios en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título              │  Versión (LastModified)      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: ID | Nombre | Vence | Calidad | Precio              │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: con precio / sin precio / fallidos / total        │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
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

	"github.com/jhoicas/stock-sync/internal/application/stock"
	"github.com/jhoicas/stock-sync/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorFailed  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var _ stock.ReportRenderer = (*StockReportGenerator)(nil)

// ── Generator ─────────────────────────────────────────────────────────────────

// StockReportGenerator implementa stock.ReportRenderer usando Maroto v2.
type StockReportGenerator struct {
	title string
}

// NewStockReportGenerator construye el generador; title encabeza cada reporte.
func NewStockReportGenerator(title string) *StockReportGenerator {
	if title == "" {
		title = "Stock"
	}
	return &StockReportGenerator{title: title}
}

// RenderStockReport genera el PDF y devuelve sus bytes. Las fechas se muestran en zone.
func (g *StockReportGenerator) RenderStockReport(_ context.Context, list entity.PricedStockList, zone *time.Location) ([]byte, error) {
	if zone == nil {
		zone = time.UTC
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, list.LastModified.In(zone)))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(itemRows(list.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(list))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, lastModified time.Time) core.Row {
	version := "sin versión"
	if !lastModified.IsZero() {
		version = lastModified.Format("02/01/2006 15:04:05 MST")
	}
	return row.New(14).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("ÚLTIMA MODIFICACIÓN", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(version, props.Text{
				Size: 9, Align: align.Right, Top: 7, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("ID", 3, align.Left),
		h("Nombre", 4, align.Left),
		h("Vence", 2, align.Center),
		h("Calidad", 1, align.Center),
		h("Precio", 2, align.Right),
	)
}

func itemRows(items []entity.PricedItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		priceText, priceColor := formatPrice(it.Price)
		result = append(result, row.New(7).Add(
			col.New(3).Add(text.New(it.ID.String(), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(it.Name, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(formatSellBy(it.SellByDate), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(1).Add(text.New(strconv.Itoa(it.Quality), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(priceText, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: priceColor})),
		))
	}
	return result
}

func summaryRow(list entity.PricedStockList) core.Row {
	counts := list.CountByState()
	total := decimal.Zero
	for _, it := range list.Items {
		if p, err := it.Price.Get(); err == nil && p != nil {
			total = total.Add(p.Decimal())
		}
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(26).Add(
		col.New(6),
		col.New(3).Add(
			label("Con precio:"),
			label("Sin precio:"),
			label("Fallidos:"),
			label("Valor total:"),
		),
		col.New(3).Add(
			value(strconv.Itoa(counts[entity.PriceStatePriced])),
			value(strconv.Itoa(counts[entity.PriceStateUnpriced])),
			value(strconv.Itoa(counts[entity.PriceStateFailed])),
			value("£"+total.StringFixed(2)),
		),
	)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func formatSellBy(d *time.Time) string {
	if d == nil {
		return "-"
	}
	return d.Format("02/01/2006")
}

func formatPrice(r entity.PriceResult) (string, *props.Color) {
	switch r.State() {
	case entity.PriceStatePriced:
		p, _ := r.Get()
		return p.String(), nil
	case entity.PriceStateUnpriced:
		return "-", colorGray
	default:
		return "error", colorFailed
	}
}
