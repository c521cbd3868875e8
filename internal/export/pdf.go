package export

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

var ErrPDFUnavailable = errors.New("pdf rendering is not configured")

// Gotenberg converts HTML to PDF through a Gotenberg instance.
type Gotenberg struct {
	baseURL    string
	httpClient *http.Client
}

func NewGotenberg(baseURL string, timeout time.Duration) *Gotenberg {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Gotenberg{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ping checks that the Gotenberg service is up.
func (g *Gotenberg) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}

	return nil
}

func (g *Gotenberg) RenderHTML(ctx context.Context, html string) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}

	if _, err := io.WriteString(part, html); err != nil {
		return nil, fmt.Errorf("writing html: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("render failed with status %d", resp.StatusCode)
	}

	pdf, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}

	return pdf, nil
}

//go:embed report.html.tmpl
var reportTemplate string

var reportHTML = template.Must(template.New("report").Funcs(template.FuncMap{
	"hours": func(h float64) string { return fmt.Sprintf("%.1f", h) },
	"date":  func(t time.Time) string { return t.Format("2. 1. 2006") },
}).Parse(reportTemplate))

// RenderHTML renders the printable report. Gotenberg is only needed for the
// PDF conversion, so the HTML is also usable on its own.
func RenderHTML(r *Report) (string, error) {
	var buf bytes.Buffer
	if err := reportHTML.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("rendering report template: %w", err)
	}

	return buf.String(), nil
}

func (s *Service) RenderPDF(ctx context.Context, r *Report) ([]byte, error) {
	if s.renderer == nil {
		return nil, ErrPDFUnavailable
	}

	html, err := RenderHTML(r)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.RenderHTML(ctx, html)
	if err != nil {
		return nil, fmt.Errorf("rendering pdf: %w", err)
	}

	return pdf, nil
}

func (s *Service) PDFAvailable() bool {
	return s.renderer != nil
}
