package driven

import "context"

// PDFFetcher retrieves a submission's PDF bytes from the platform.
type PDFFetcher interface {
	// FetchPDF downloads the PDF for a note id. Returns
	// domain.ErrNotFound when the note has no PDF attached.
	FetchPDF(ctx context.Context, noteID string) ([]byte, error)
}

// DocumentParser converts a PDF into structured text via an external
// document-parsing server.
type DocumentParser interface {
	// Parse submits the PDF and returns the raw TEI XML.
	Parse(ctx context.Context, pdf []byte, filename string) ([]byte, error)

	// Markdown reduces TEI XML to a simple Markdown document
	// (title, section heads, paragraphs).
	Markdown(tei []byte) (string, error)
}
