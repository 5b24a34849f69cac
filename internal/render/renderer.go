package render

//go:generate mockgen -destination=mocks/mock_renderer.go -package=mocks -source=renderer.go Renderer

import "context"

// Kind selects what the document writer produces.
type Kind int

const (
	// KindDocx writes the final document to the output path.
	KindDocx Kind = iota
	// KindPDFSources writes <out>_temp.docx and <out>_temp.html next to the
	// target PDF path for the browser print stage.
	KindPDFSources
)

func (k Kind) String() string {
	switch k {
	case KindDocx:
		return "docx"
	case KindPDFSources:
		return "pdf"
	default:
		return "unknown"
	}
}

// Renderer is the external document writer. A zero status means success; any
// other status is the writer's own failure code and is passed through
// unchanged. err is reserved for failures to invoke the writer at all.
type Renderer interface {
	Render(ctx context.Context, kind Kind, payload []byte, outputPath string) (status int, err error)
}
