// Package export renders a single quote to a one-page PDF.
package export

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"oficina-backend/internal/apperr"

	"github.com/shopspring/decimal"
)

type QuoteLine struct {
	Description string
	Price       decimal.Decimal
}

// Quote is a budget with the client name and item texts already resolved.
type Quote struct {
	ID         uint
	ClientName string
	Items      []QuoteLine
	Total      decimal.Decimal
	CreatedAt  time.Time
}

type Document struct {
	Filename string
	Content  []byte
}

func Filename(id uint) string {
	return fmt.Sprintf("orcamento_%d.pdf", id)
}

// FormatBRL formats an amount as "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	out := "R$ " + b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

var quoteTemplate = template.Must(template.New("quote").Funcs(template.FuncMap{
	"brl":  FormatBRL,
	"date": func(t time.Time) string { return t.Format("02/01/2006") },
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="utf-8">
<title>Orçamento #{{.ID}}</title>
<style>
body { font-family: Arial, sans-serif; width: 190mm; margin: 0 auto; color: #222; }
h1 { font-size: 20px; margin-bottom: 4px; }
table { width: 100%; border-collapse: collapse; margin-top: 16px; }
th, td { border-bottom: 1px solid #ccc; padding: 6px; text-align: left; }
td.price, th.price { text-align: right; }
tfoot td { font-weight: bold; border-bottom: none; }
</style>
</head>
<body>
<h1>Orçamento #{{.ID}}</h1>
<p>Cliente: {{.ClientName}}</p>
{{- if not .CreatedAt.IsZero}}
<p>Data: {{date .CreatedAt}}</p>
{{- end}}
<table>
<thead><tr><th>Item</th><th class="price">Valor</th></tr></thead>
<tbody>
{{- range .Items}}
<tr><td>{{.Description}}</td><td class="price">{{brl .Price}}</td></tr>
{{- end}}
</tbody>
<tfoot><tr><td>Total</td><td class="price">{{brl .Total}}</td></tr></tfoot>
</table>
</body>
</html>
`))

// RenderHTML produces the document markup. The output depends only on q.
func RenderHTML(q Quote) (string, error) {
	var buf bytes.Buffer
	if err := quoteTemplate.Execute(&buf, q); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type PDFExporter struct {
	renderer Renderer
}

func NewPDFExporter(r Renderer) *PDFExporter {
	return &PDFExporter{renderer: r}
}

// Export renders the whole document or fails; there is no partial output.
func (e *PDFExporter) Export(ctx context.Context, q Quote) (Document, error) {
	html, err := RenderHTML(q)
	if err != nil {
		return Document{}, apperr.Render("Falha ao montar o orçamento", err)
	}
	pdf, err := e.renderer.RenderHTML(ctx, html)
	if err != nil {
		return Document{}, apperr.Render("Falha ao gerar o PDF", err)
	}
	if len(pdf) == 0 {
		return Document{}, apperr.Render("Falha ao gerar o PDF", fmt.Errorf("empty document"))
	}
	return Document{Filename: Filename(q.ID), Content: pdf}, nil
}
