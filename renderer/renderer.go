// Package renderer renders key rate duration reports as markdown and JSON.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/krd"
)

//go:embed *.md
var templates embed.FS

// ReportRenderOptions holds configuration for rendering a report.
type ReportRenderOptions struct {
	SkipBonds bool // Do not render the per bond sections.
}

// RenderReport renders the key rate duration report to a markdown string.
func RenderReport(r *krd.Report, opts ReportRenderOptions) string {
	partials := map[string]string{
		"report_title":     "report_title.md",
		"report_portfolio": "report_portfolio.md",
		"report_bonds":     "report_bonds.md",
	}
	// An empty file name results in an empty template.
	if opts.SkipBonds {
		partials["report_bonds"] = ""
	}
	return renderTemplate("report", "report.md", partials, r)
}

// RenderPresentValues renders the present value of each bond of the report.
func RenderPresentValues(r *krd.Report) string {
	partials := map[string]string{
		"report_title": "report_title.md",
	}
	return renderTemplate("pv", "pv.md", partials, r)
}

var funcs = template.FuncMap{
	// krd formats a duration figure.
	"krd": func(x float64) string { return fmt.Sprintf("%.4f", x) },
	// years formats a term.
	"years": func(x float64) string { return fmt.Sprintf("%.3f", x) },
	"weight": func(x float64) string {
		return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.6f", x), "0"), ".")
	},
	"weighted": func(b krd.BondKRD) krd.Money {
		return krd.M(b.Weight*b.PresentValue.Float64(), b.PresentValue.Currency())
	},
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
