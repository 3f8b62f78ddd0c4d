package textcache

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor renders a document as plain text at dst.
type Extractor interface {
	Extract(ctx context.Context, src, dst string) error
	Name() string
}

// Extractor names accepted by NewExtractor.
const (
	ExtractorPDFToText = "pdftotext"
	ExtractorBuiltin   = "builtin"
)

// NewExtractor returns the extractor called name. program is the pdftotext
// executable and is ignored by the builtin extractor.
func NewExtractor(name, program string) (Extractor, error) {
	switch name {
	case "", ExtractorPDFToText:
		return &PDFToText{Program: program}, nil
	case ExtractorBuiltin:
		return Builtin{}, nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (valid: %s, %s)", name, ExtractorPDFToText, ExtractorBuiltin)
	}
}

// PDFToText runs poppler's pdftotext.
type PDFToText struct {
	Program string // defaults to "pdftotext" on PATH
}

func (p *PDFToText) Name() string { return ExtractorPDFToText }

// Extract runs "pdftotext src tmp" and renames tmp to dst, so a failed run
// never leaves a fresh-looking text file behind.
func (p *PDFToText) Extract(ctx context.Context, src, dst string) error {
	program := p.Program
	if program == "" {
		program = ExtractorPDFToText
	}

	tmp := dst + ".partial"
	cmd := exec.CommandContext(ctx, program, src, tmp)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("%s failed: %w: %s", program, err, strings.TrimSpace(stderr.String()))
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("moving extracted text into place: %w", err)
	}
	return nil
}

// Builtin extracts text in-process with github.com/ledongthuc/pdf.
// Layout fidelity is lower than pdftotext but no external program is needed.
type Builtin struct{}

func (Builtin) Name() string { return ExtractorBuiltin }

func (Builtin) Extract(ctx context.Context, src, dst string) error {
	f, r, err := pdf.Open(src)
	if err != nil {
		return fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	var builder strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return writeFileAtomic(dst, []byte(builder.String()))
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.partial")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing text: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing text: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("moving extracted text into place: %w", err)
	}
	return nil
}
