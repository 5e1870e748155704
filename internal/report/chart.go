package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/Veraticus/lil-bank-buddy/internal/analysis"
)

// ErrNoCategories is returned when a pie chart would have no slices.
var ErrNoCategories = errors.New("no categories to chart")

// PieChartRenderer draws a category pie chart.
type PieChartRenderer interface {
	RenderPie(w io.Writer, title string, categories []analysis.CategoryCount) error
}

// GoChartRenderer renders PNG pie charts with go-chart.
type GoChartRenderer struct {
	Width  int
	Height int
}

// NewGoChartRenderer creates a renderer producing 800x640 images.
func NewGoChartRenderer() *GoChartRenderer {
	return &GoChartRenderer{Width: 800, Height: 640}
}

// RenderPie implements PieChartRenderer. Slices are sized by transaction count.
func (r *GoChartRenderer) RenderPie(w io.Writer, title string, categories []analysis.CategoryCount) error {
	if len(categories) == 0 {
		return ErrNoCategories
	}

	values := make([]chart.Value, 0, len(categories))
	for _, c := range categories {
		values = append(values, chart.Value{
			Value: float64(c.Count),
			Label: fmt.Sprintf("%s (%d)", c.Category, c.Count),
		})
	}

	pie := chart.PieChart{
		Title:  title,
		Width:  r.Width,
		Height: r.Height,
		Values: values,
	}

	if err := pie.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render pie chart: %w", err)
	}
	return nil
}
