// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package table

import (
	"html/template"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/thewaffle/waffle/internal/model"
)

// =============================================================================
// HTML RENDERING
// =============================================================================

var htmlTemplate = template.Must(template.New("tables").Funcs(template.FuncMap{
	"inc":    func(i int) int { return i + 1 },
	"parity": rowParity,
}).Parse(`{{if not .}}<div>No data available</div>{{else}}<div class="tables">
{{- range $i, $t := .}}
<div class="table-container">
<div class="table-meta">
<h2>Table {{inc $i}}</h2>
<p><strong>Title:</strong> {{$t.Meta.TableHeading}}</p>
<p><strong>PDF URL:</strong> <a href="{{$t.Meta.PDFURL}}" target="_blank" rel="noopener noreferrer">{{$t.Meta.PDFURL}}</a></p>
<p><strong>Page Number:</strong> {{$t.Meta.PageNumber}}</p>
</div>
{{- if $t.Empty}}
<p>No table data available</p>
{{- else}}
<table>
<thead><tr>{{range $t.Headers}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range $r, $row := $t.Rows}}
<tr class="{{parity $r}}">{{range $row}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
{{- end}}
</div>
{{- end}}
</div>{{end}}`))

func rowParity(i int) string {
	if i%2 == 0 {
		return "even"
	}
	return "odd"
}

// RenderHTML renders tables as escaped HTML. It never fails: an empty list
// renders the "No data available" state.
func RenderHTML(tables []model.TableExtraction) string {
	for _, t := range tables {
		if err := Validate(t); err != nil {
			log.Warn().Err(err).Msg("rendering mismatched table with padded cells")
		}
	}

	var b strings.Builder
	if err := htmlTemplate.Execute(&b, tables); err != nil {
		log.Error().Err(err).Msg("table template failed")
		return "<div>No data available</div>"
	}
	return b.String()
}
