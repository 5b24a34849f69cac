package printer

//go:generate mockgen -destination=mocks/mock_printer.go -package=mocks -source=printer.go Printer

import "context"

// PageConfig describes the printed page. Lengths are in inches.
type PageConfig struct {
	PaperWidth          float64
	PaperHeight         float64
	MarginTop           float64
	MarginBottom        float64
	MarginLeft          float64
	MarginRight         float64
	Scale               float64
	DisplayHeaderFooter bool
	// SelectionOnly is always false for generated plans; browsers that
	// cannot restrict output to a selection ignore it.
	SelectionOnly bool
}

// A4 is the geometry used for every plan: ISO A4, no margins, 100% scale,
// no header or footer.
func A4() PageConfig {
	return PageConfig{
		PaperWidth:  8.27,
		PaperHeight: 11.69,
		Scale:       1.0,
	}
}

// Printer renders an HTML file to a PDF file.
type Printer interface {
	PrintToPDF(ctx context.Context, htmlPath, pdfPath string, cfg PageConfig) error
}
