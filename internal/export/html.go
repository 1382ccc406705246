// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"html/template"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/thewaffle/waffle/internal/markdown"
	"github.com/thewaffle/waffle/internal/table"
)

// =============================================================================
// HTML EXPORTER
// =============================================================================

// BubbleRenderer renders one turn as sanitized HTML.
// *markdown.Renderer satisfies it.
type BubbleRenderer interface {
	HTML(ctx markdown.Context, text string) string
}

// HTMLExporter writes a standalone page with embedded CSS.
type HTMLExporter struct {
	Renderer BubbleRenderer
}

type htmlTurn struct {
	Role string
	Name string
	Time string
	Body template.HTML
}

type htmlPage struct {
	Title    string
	Exported string
	Turns    []htmlTurn
	Tables   template.HTML
}

// Bubble and table markup is produced already sanitized, so it is passed
// through as template.HTML; everything else is escaped by the template.
var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="generator" content="waffle">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; background: #1e1e2e; color: #cdd6f4; margin: 0; }
.container { max-width: 860px; margin: 0 auto; padding: 24px; }
header h1 { color: #fb923c; margin-bottom: 4px; }
header p { color: #6c7086; margin-top: 0; }
.turn { display: flex; flex-direction: column; margin: 16px 0; }
.turn.human { align-items: flex-end; }
.turn.assistant { align-items: flex-start; }
.who { font-size: 12px; color: #6c7086; margin-bottom: 4px; }
.bubble { max-width: 80%; padding: 8px 14px; border-radius: 12px; }
.bubble.human { background: #7c2d12; }
.bubble.assistant { background: #313244; }
table { border-collapse: collapse; width: 100%; margin: 8px 0 24px; }
th, td { border: 1px solid #45475a; padding: 4px 8px; text-align: left; }
tr.odd { background: #181825; }
a { color: #22d3ee; }
</style>
</head>
<body>
<div class="container">
<header>
<h1>{{.Title}}</h1>
{{- if .Exported}}
<p>Exported {{.Exported}}</p>
{{- end}}
</header>
<main>
{{- range .Turns}}
<section class="turn {{.Role}}">
<div class="who">{{.Name}} · {{.Time}}</div>
{{.Body}}
</section>
{{- end}}
</main>
{{- if .Tables}}
<h2>Tables</h2>
{{.Tables}}
{{- end}}
</div>
</body>
</html>
`))

// Export implements Exporter.
func (e HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}
	if e.Renderer == nil {
		return nil, errors.New("no markdown renderer")
	}

	page := htmlPage{Title: t.title()}
	if !t.ExportedAt.IsZero() {
		page.Exported = t.ExportedAt.Format(time.RFC1123)
	}
	for _, turn := range t.Turns {
		ctx := markdown.ContextFor(turn.Role)
		page.Turns = append(page.Turns, htmlTurn{
			Role: ctx.String(),
			Name: turn.Role.DisplayName(),
			Time: turn.CreatedAt.Format("15:04"),
			Body: template.HTML(e.Renderer.HTML(ctx, turn.Text)),
		})
	}
	if len(t.Tables) > 0 {
		page.Tables = template.HTML(table.RenderHTML(t.Tables))
	}

	var sb strings.Builder
	if err := pageTemplate.Execute(&sb, page); err != nil {
		return nil, errors.Wrap(err, "render page")
	}
	return []byte(sb.String()), nil
}

// FileExtension implements Exporter.
func (HTMLExporter) FileExtension() string { return ".html" }
