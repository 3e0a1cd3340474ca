package dashboard

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

const (
	defaultWidth   = 720
	defaultHeight  = 320
	defaultPadding = 48.0
	defaultTicks   = 4
)

// BarOpts configures the revenue/expense chart.
type BarOpts struct {
	Title        string
	SeriesALabel string
	SeriesBLabel string
	ColorA       string
	ColorB       string
}

// Bars renders a grouped bar chart of two series sharing one label axis.
func Bars(width, height int, seriesA, seriesB []float64, labels []string, opts BarOpts) (string, error) {
	if len(labels) == 0 {
		return "", fmt.Errorf("svg: labels required")
	}
	if len(seriesA) != len(labels) || len(seriesB) != len(labels) {
		return "", fmt.Errorf("svg: series length must match labels")
	}
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	padding := defaultPadding

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	minVal, maxVal := bounds(seriesA, seriesB)
	if maxVal-minVal < 1e-9 {
		maxVal = minVal + 1
	}
	scale := chartHeight / (maxVal - minVal)
	zeroY := padding + chartHeight - (0-minVal)*scale
	bottom := padding + chartHeight

	groupWidth := chartWidth / float64(len(labels))
	barWidth := groupWidth / 3

	axisColor := "#475569"
	colorA := fallback(opts.ColorA, "#16a34a")
	colorB := fallback(opts.ColorB, "#dc2626")
	labelA := template.HTMLEscapeString(fallback(opts.SeriesALabel, "Receita"))
	labelB := template.HTMLEscapeString(fallback(opts.SeriesBLabel, "Despesa"))

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" role="img">`, width, height)
	fmt.Fprintf(&b, `<title>%s</title>`, template.HTMLEscapeString(fallback(opts.Title, "Receita x Despesa")))

	for i := 0; i <= defaultTicks; i++ {
		ratio := float64(i) / float64(defaultTicks)
		value := minVal + (maxVal-minVal)*ratio
		y := bottom - ratio*chartHeight
		fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="#cbd5e1" stroke-width="0.5" stroke-dasharray="2,4"></line>`, padding, y, padding+chartWidth, y)
		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="end">%s</text>`, padding-6, y+4, axisColor, formatTick(value))
	}

	fmt.Fprintf(&b, `<g stroke="%s">`, axisColor)
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="1"></line>`, padding, padding, padding, bottom)
	fmt.Fprintf(&b, `<line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke-width="1"></line>`, padding, zeroY, padding+chartWidth, zeroY)
	b.WriteString(`</g>`)

	for i, label := range labels {
		baseX := padding + float64(i)*groupWidth
		esc := template.HTMLEscapeString(label)

		y, h := barPosition(seriesA[i], scale, zeroY, padding, bottom)
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" aria-label="%s %s"></rect>`, baseX+barWidth*0.3, y, barWidth, h, colorA, labelA, esc)
		y, h = barPosition(seriesB[i], scale, zeroY, padding, bottom)
		fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" aria-label="%s %s"></rect>`, baseX+barWidth*1.4, y, barWidth, h, colorB, labelB, esc)

		fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10" text-anchor="middle">%s</text>`, baseX+groupWidth/2, bottom+14, axisColor, esc)
	}

	legendY := math.Max(padding-12, 12)
	fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="10" height="10" fill="%s"></rect>`, padding, legendY-8, colorA)
	fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10">%s</text>`, padding+14, legendY, axisColor, labelA)
	fmt.Fprintf(&b, `<rect x="%.2f" y="%.2f" width="10" height="10" fill="%s"></rect>`, padding+90, legendY-8, colorB)
	fmt.Fprintf(&b, `<text x="%.2f" y="%.2f" fill="%s" font-size="10">%s</text>`, padding+104, legendY, axisColor, labelB)

	b.WriteString(`</svg>`)
	return b.String(), nil
}

// bounds always includes zero so bars grow from the axis.
func bounds(series ...[]float64) (float64, float64) {
	minVal, maxVal := 0.0, 0.0
	for _, s := range series {
		for _, v := range s {
			minVal = math.Min(minVal, v)
			maxVal = math.Max(maxVal, v)
		}
	}
	return minVal, maxVal
}

func barPosition(value, scale, zeroY, top, bottom float64) (float64, float64) {
	if value >= 0 {
		height := value * scale
		y := zeroY - height
		if y < top {
			height -= top - y
			y = top
		}
		return y, math.Max(height, 0)
	}
	height := math.Abs(value * scale)
	if zeroY+height > bottom {
		height = bottom - zeroY
	}
	return zeroY, math.Max(height, 0)
}

func formatTick(v float64) string {
	switch {
	case math.Abs(v) >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case math.Abs(v) >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
