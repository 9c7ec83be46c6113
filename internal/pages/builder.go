package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/intelligent-username/Tachion/internal/models"
)

// Builder assembles the chart page: a markdown-rendered summary of the
// current view plus the embedded chart fragment.
type Builder struct{}

// NewBuilder creates a page builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildChartPage creates the complete HTML page for a view state and its
// rendered chart fragment
func (b *Builder) BuildChartPage(view models.ViewState, chartHTML string) string {
	summary := b.markdownToHTML(b.summaryMarkdown(view))
	return b.buildCompleteHTML(view.Symbol, summary, chartHTML, view.Error)
}

// BuildInitialPage creates the landing page shown before any asset is
// selected
func (b *Builder) BuildInitialPage() string {
	body := b.markdownToHTML(strings.Join([]string{
		"# Tachion",
		"",
		"No asset selected yet.",
		"",
		"Select a symbol with `POST /select` and request a forecast with `POST /predict`.",
	}, "\n"))
	return b.buildCompleteHTML("Tachion", body, "", "")
}

// summaryMarkdown writes the view summary as markdown
func (b *Builder) summaryMarkdown(view models.ViewState) string {
	var md strings.Builder
	fmt.Fprintf(&md, "# %s\n\n", view.Symbol)
	fmt.Fprintf(&md, "**Asset class:** %s\n\n", view.AssetClass)
	fmt.Fprintf(&md, "**History points:** %d\n\n", len(view.History))

	if n := len(view.History); n > 0 {
		first := view.History[0]
		last := view.History[n-1]
		fmt.Fprintf(&md, "**Range:** %s to %s (last close %.2f)\n\n",
			first.Timestamp.Format("2006-01-02"),
			last.Timestamp.Format("2006-01-02"),
			last.Value)
	}

	if f := view.Forecast; f != nil && f.Len() > 0 {
		fmt.Fprintf(&md, "## Forecast\n\n")
		fmt.Fprintf(&md, "- Horizon: %d periods, through %s\n",
			f.Len(), f.Timestamps[f.Len()-1].Format("2006-01-02"))
		fmt.Fprintf(&md, "- Median end value: %.2f\n", f.Medians[f.Len()-1])
		fmt.Fprintf(&md, "- 95%% interval at horizon: [%.2f, %.2f]\n",
			f.LowerBounds[f.Len()-1], f.UpperBounds[f.Len()-1])
		if model, ok := f.Metadata["model"]; ok && model != "" {
			fmt.Fprintf(&md, "- Model: %s\n", model)
		}
	}

	return md.String()
}

// markdownToHTML converts markdown to HTML
func (b *Builder) markdownToHTML(markdownText string) string {
	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	p := parser.NewWithExtensions(extensions)
	doc := p.Parse([]byte(markdownText))

	htmlFlags := html.CommonFlags | html.HrefTargetBlank
	opts := html.RendererOptions{Flags: htmlFlags}
	renderer := html.NewRenderer(opts)

	return string(markdown.Render(doc, renderer))
}

// buildCompleteHTML creates a complete HTML document
func (b *Builder) buildCompleteHTML(title, summary, chartHTML, errMsg string) string {
	generated := time.Now().UTC().Format("2006-01-02 15:04:05 UTC")

	errorBanner := ""
	if errMsg != "" {
		errorBanner = fmt.Sprintf(`<div class="error-banner">%s</div>`, errMsg)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Tachion - %s</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            line-height: 1.6;
            color: #333;
            max-width: 1200px;
            margin: 0 auto;
            padding: 20px;
            background-color: #f8f9fa;
        }
        .summary-section, .chart-section {
            background: white;
            border-radius: 8px;
            padding: 20px;
            margin-bottom: 20px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
        }
        .error-banner {
            background: #f8d7da;
            color: #721c24;
            border: 1px solid #f5c6cb;
            border-radius: 4px;
            padding: 12px 16px;
            margin-bottom: 20px;
        }
        .footer {
            color: #6c757d;
            font-size: 0.85em;
            text-align: center;
        }
    </style>
</head>
<body>
    %s
    <div class="summary-section">
%s
    </div>
    <div class="chart-section">
%s
    </div>
    <div class="footer">Generated at %s</div>
</body>
</html>`, title, errorBanner, summary, chartHTML, generated)
}
