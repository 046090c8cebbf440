package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log"
	"os"
	"path/filepath"
	"time"

	"go-dashboard-verification/internal/browser"
	"go-dashboard-verification/internal/models"

	"github.com/playwright-community/playwright-go"
)

//go:embed templates/report.html
var templates embed.FS

// Generator renders a run's screenshots into report.html next to them,
// and optionally prints that page to report.pdf.
type Generator struct {
	outputDir   string
	pdf         bool
	browserOpts browser.Options
	tmpl        *template.Template
}

// NewGenerator builds a report recorder. opts are the run's browser options;
// the PDF printer reuses their install and viewport settings.
func NewGenerator(outputDir string, withPDF bool, opts browser.Options) (*Generator, error) {
	funcMap := template.FuncMap{
		"base": filepath.Base,
		"yesno": func(v bool) string {
			if v {
				return "yes"
			}
			return "no"
		},
		"duration": func(r *models.Run) string {
			return r.Duration().Round(time.Millisecond).String()
		},
	}

	tmpl, err := template.New("report.html").Funcs(funcMap).ParseFS(templates, "templates/report.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	return &Generator{
		outputDir:   outputDir,
		pdf:         withPDF,
		browserOpts: opts,
		tmpl:        tmpl,
	}, nil
}

func (g *Generator) Name() string {
	return "report"
}

func (g *Generator) HTMLPath() string {
	return filepath.Join(g.outputDir, "report.html")
}

func (g *Generator) PDFPath() string {
	return filepath.Join(g.outputDir, "report.pdf")
}

func (g *Generator) Record(ctx context.Context, run *models.Run) error {
	htmlContent, err := g.Render(run)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return fmt.Errorf("could not create directory: %w", err)
	}
	if err := os.WriteFile(g.HTMLPath(), htmlContent, 0644); err != nil {
		return fmt.Errorf("could not write report: %w", err)
	}
	log.Printf("📁 Report saved to %s", g.HTMLPath())

	if !g.pdf {
		return nil
	}
	return g.printPDF(ctx)
}

// Render executes the report template for run.
func (g *Generator) Render(run *models.Run) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, run); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfOptions returns the browser options used for printing. Page.PDF is only
// implemented by headless chromium, whatever engine the run itself uses.
func (g *Generator) pdfOptions() browser.Options {
	opts := g.browserOpts
	opts.Engine = "chromium"
	opts.Headless = true
	return opts
}

// printPDF opens report.html from disk so the relative screenshot paths resolve.
func (g *Generator) printPDF(ctx context.Context) error {
	absPath, err := filepath.Abs(g.HTMLPath())
	if err != nil {
		return fmt.Errorf("could not resolve report path: %w", err)
	}

	pm, err := browser.NewPlaywright(ctx, g.pdfOptions())
	if err != nil {
		return err
	}
	defer pm.Close()

	browserCtx, err := pm.NewContext(nil)
	if err != nil {
		return err
	}

	page, err := browserCtx.NewPage()
	if err != nil {
		return fmt.Errorf("could not create new page: %w", err)
	}
	defer page.Close()

	if _, err := page.Goto("file://"+absPath, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateLoad,
	}); err != nil {
		return fmt.Errorf("could not open report: %w", err)
	}

	if _, err := page.PDF(playwright.PagePdfOptions{
		Path:            playwright.String(g.PDFPath()),
		Format:          playwright.String("A4"),
		PrintBackground: playwright.Bool(true),
		Margin: &playwright.Margin{
			Top:    playwright.String("12mm"),
			Bottom: playwright.String("12mm"),
			Left:   playwright.String("12mm"),
			Right:  playwright.String("12mm"),
		},
	}); err != nil {
		return fmt.Errorf("could not generate PDF: %w", err)
	}

	log.Printf("📁 PDF report saved to %s", g.PDFPath())
	return nil
}
