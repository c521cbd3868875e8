package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Bundle writes a zip with everything the accountant needs: the PDF when a
// renderer is configured, both CSVs and the e-mail text.
func (s *Service) Bundle(ctx context.Context, w io.Writer, r *Report) error {
	zw := zip.NewWriter(w)

	if s.renderer != nil {
		pdf, err := s.RenderPDF(ctx, r)
		if err != nil {
			return err
		}

		if err := addFile(zw, r.Filename("vykaz_prace", "pdf"), func(w io.Writer) error {
			_, err := io.Copy(w, bytes.NewReader(pdf))
			return err
		}); err != nil {
			return err
		}
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{"vykaz_prace_souhrn.csv", func(w io.Writer) error { return WriteSummaryCSV(w, r) }},
		{"vykaz_prace_detail.csv", func(w io.Writer) error { return WriteDetailCSV(w, r) }},
		{"email.txt", func(w io.Writer) error {
			email := s.EmailDraft(r)
			_, err := fmt.Fprintf(w, "Komu: %s\nPředmět: %s\n\n%s", email.Recipient, email.Subject, email.Body)

			return err
		}},
	}

	for _, f := range files {
		if err := addFile(zw, f.name, f.write); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("closing zip: %w", err)
	}

	return nil
}

func addFile(zw *zip.Writer, name string, write func(io.Writer) error) error {
	fw, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("adding %s: %w", name, err)
	}

	if err := write(fw); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}
