// Package pdf genera el comprobante de venta (cupom) en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + CNPJ      │  N° venta + Fecha            │
//	│  LOJA: Dirección / Tel / Email                               │
//	│  CLIENTE: Nombre + CPF + contacto                            │
//	│  TABLA: Cant | Producto | P.Unit | Total                     │
//	│  TOTALES: Subtotal / Descuento / TOTAL                       │
//	│  PARCELAS (si hay)                                           │
//	│  FOOTER: QR con el ID de la venta                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/varejo-api/internal/application/sales"
	"github.com/jhoicas/varejo-api/internal/domain/entity"
	"github.com/jhoicas/varejo-api/pkg/brl"
)

var _ sales.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 104, Blue: 71}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

var paymentLabels = map[string]string{
	entity.PaymentCash:         "Dinheiro",
	entity.PaymentCard:         "Cartão",
	entity.PaymentPix:          "PIX",
	entity.PaymentInstallments: "Parcelado",
	entity.PaymentFiado:        "Fiado",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct{}

// NewMarotoReceiptGenerator construye el generador.
func NewMarotoReceiptGenerator() *MarotoReceiptGenerator { return &MarotoReceiptGenerator{} }

// GenerateSaleReceipt genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) GenerateSaleReceipt(_ context.Context, data sales.ReceiptData) ([]byte, error) {
	if data.Sale == nil || data.Store == nil {
		return nil, fmt.Errorf("pdf: venta y loja son obligatorias")
	}
	author := data.Store.Name
	if data.Company != nil {
		author = data.Company.Name
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprovante de venda", true).
		WithAuthor(author, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(storeRow(data.Store))
	m.AddRows(customerRow(data.Customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(data.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(data.Sale, data.Lines))

	if len(data.Installments) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(installmentRows(data.Installments)...)
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(data.Sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(data sales.ReceiptData) core.Row {
	name, cnpj := data.Store.Name, ""
	if data.Company != nil {
		name = data.Company.Name
		cnpj = "CNPJ: " + data.Company.CNPJ
	}
	title := "COMPROVANTE DE VENDA"
	titleColor := colorPrimary
	if data.Sale.Status == entity.SaleStatusCancelled {
		title = "VENDA CANCELADA"
		titleColor = colorRed
	}

	return row.New(18).Add(
		col.New(7).Add(
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(cnpj, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: titleColor, Top: 1,
			}),
			text.New(shortID(data.Sale.ID), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Data: "+data.Sale.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func storeRow(store *entity.Store) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("LOJA: "+store.Name, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Endereço: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(store.Address, "-"),
				nonEmpty(store.Phone, "-"),
				nonEmpty(store.Email, "-"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func customerRow(customer *entity.Customer) core.Row {
	if customer == nil {
		return row.New(8).Add(col.New(12).Add(
			text.New("CONSUMIDOR FINAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
		))
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(customer.Name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("CPF: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(customer.CPF, "-"),
				nonEmpty(customer.Phone, "-"),
				nonEmpty(customer.Email, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
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
		h("Qtd.", 1, align.Center),
		h("Produto", 6, align.Left),
		h("Preço unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func tableLineRows(lines []sales.ReceiptLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				strconv.Itoa(l.Quantity)+" "+l.Unit,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				brl.Format(l.Price),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				brl.Format(l.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: subtotal de líneas, descuento y total cobrado.
func totalsRow(sale *entity.Sale, lines []sales.ReceiptLine) core.Row {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total)
	}
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Subtotal:", 0),
			label("Desconto:", 6),
			label("Pagamento:", 12),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 2, Top: 18,
			}),
		),
		col.New(3).Add(
			value(brl.Format(subtotal), 0),
			value(brl.Format(sale.Discount), 6),
			value(nonEmpty(paymentLabels[sale.PaymentType], sale.PaymentType), 12),
			text.New(brl.Format(sale.Total), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Right: 1, Top: 18,
			}),
		),
		col.New(3),
	)
}

func installmentRows(insts []*entity.Installment) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("PARCELAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
	}
	for _, in := range insts {
		rows = append(rows, row.New(5).Add(
			col.New(2).Add(text.New(fmt.Sprintf("%dª", in.Number), props.Text{Size: 8, Top: 0.5, Left: 2})),
			col.New(4).Add(text.New("Vencimento: "+in.DueDate.Format("02/01/2006"), props.Text{Size: 8, Top: 0.5})),
			col.New(3).Add(text.New(brl.Format(in.Amount), props.Text{Size: 8, Top: 0.5, Align: align.Right})),
			col.New(3).Add(text.New(in.Status, props.Text{Size: 8, Top: 0.5, Align: align.Right, Color: colorGray, Right: 1})),
		))
	}
	return rows
}

func footerRow(sale *entity.Sale) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(sale.ID, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Identificador da venda:", props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 4, Left: 3,
			}),
			text.New(sale.ID, props.Text{Size: 7, Top: 9, Left: 3, Color: colorGray}),
			text.New("Documento sem valor fiscal. Obrigado pela preferência!", props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 20, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// shortID primeros 8 caracteres del ID, como número visible del comprobante.
func shortID(id string) string {
	if len(id) <= 8 {
		return "#" + id
	}
	return "#" + id[:8]
}
