// Package grobid is a client for a running GROBID server, converting
// PDFs to TEI XML and reducing the TEI to simple Markdown.
package grobid

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/orca-labs/orca-cli/internal/core/ports/driven"
)

const (
	// DefaultBaseURL is the default GROBID server address.
	DefaultBaseURL = "http://localhost:8070"

	// DefaultTimeout covers fulltext processing of a large PDF.
	DefaultTimeout = 3 * time.Minute

	fulltextPath = "/api/processFulltextDocument"
)

// Ensure Client implements the interface.
var _ driven.DocumentParser = (*Client)(nil)

// Client talks to a GROBID REST server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a GROBID client. An empty baseURL uses DefaultBaseURL.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Parse submits the PDF to /api/processFulltextDocument and returns the
// raw TEI XML.
func (c *Client) Parse(ctx context.Context, pdf []byte, filename string) ([]byte, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("input", filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := part.Write(pdf); err != nil {
		return nil, fmt.Errorf("writing pdf part: %w", err)
	}
	if err := mw.WriteField("consolidateCitations", "0"); err != nil {
		return nil, fmt.Errorf("writing form field: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+fulltextPath, &body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting to grobid: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("grobid returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return io.ReadAll(resp.Body)
}

// TEI element subset used for the Markdown reduction.
type tei struct {
	Title string   `xml:"teiHeader>fileDesc>titleStmt>title"`
	Divs  []teiDiv `xml:"text>body>div"`
}

type teiDiv struct {
	Head       string `xml:"head"`
	Paragraphs []para `xml:"p"`
}

type para struct {
	Text string `xml:",chardata"`
	// Inline elements (refs, formulas) carry trailing text in mixed
	// content; InnerXML keeps it recoverable.
	Inner string `xml:",innerxml"`
}

// Markdown reduces TEI XML to title, section heads and paragraph text.
func (c *Client) Markdown(teiXML []byte) (string, error) {
	var doc tei
	if err := xml.Unmarshal(teiXML, &doc); err != nil {
		return "", fmt.Errorf("parsing TEI: %w", err)
	}

	var lines []string
	if title := strings.TrimSpace(doc.Title); title != "" {
		lines = append(lines, "# "+title, "")
	}
	for _, div := range doc.Divs {
		if head := strings.TrimSpace(div.Head); head != "" {
			lines = append(lines, "## "+head)
		}
		for _, p := range div.Paragraphs {
			if txt := flattenParagraph(p); txt != "" {
				lines = append(lines, txt)
			}
		}
		lines = append(lines, "")
	}

	md := strings.TrimSpace(strings.Join(lines, "\n"))
	if md == "" {
		return "", nil
	}
	return md + "\n", nil
}

// flattenParagraph joins a paragraph's text content, dropping markup
// from mixed-content children.
func flattenParagraph(p para) string {
	src := p.Inner
	if src == "" {
		src = p.Text
	}
	dec := xml.NewDecoder(strings.NewReader("<p>" + src + "</p>"))
	var b strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		if cd, ok := tok.(xml.CharData); ok {
			b.Write(cd)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
