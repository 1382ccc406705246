// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command.
//
// Command: ask [question]
//
// Examples:
//   waffle ask --doc report.pdf "What was revenue in Q3?"
//   waffle ask --doc report.pdf --graph "Plot revenue by quarter"
//   waffle ask --doc report.pdf --html "Summarize section 2" > answer.html
//
// Partial statuses go to stderr so stdout carries only the answer.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/spf13/cobra"

	"github.com/thewaffle/waffle/internal/markdown"
	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/table"
	"github.com/thewaffle/waffle/internal/util"
)

// =============================================================================
// ASK COMMAND
// =============================================================================

type askOptions struct {
	doc       string
	tags      []string
	graph     bool
	explain   bool
	reason    bool
	html      bool
	rawTables bool
	quiet     bool
}

func newAskCommand(opts *rootOptions) *cobra.Command {
	o := askOptions{}

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question about a document",
		Example: `  waffle ask --doc report.pdf "What was revenue in Q3?"
  waffle ask --doc report.pdf --graph --explain "Compare Q2 and Q3"`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices(opts.cfg)
			if err != nil {
				return err
			}
			defer svc.close()

			doc := o.doc
			if doc == "" {
				if doc, err = latestDocument(cmd.Context(), svc.backend); err != nil {
					return err
				}
			}
			tags, err := o.tagSet(svc.tags)
			if err != nil {
				return err
			}

			ls := newLineSession(svc.stream, doc)
			defer ls.close()

			status := newStatusLine(cmd.ErrOrStderr(), !o.quiet && IsStderrTTY())
			answer, tables, err := ls.ask(cmd.Context(), strings.Join(args, " "), tags, status.update)
			status.clear()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if o.html {
				return writeHTML(out, svc.renderer, answer, tables)
			}
			writeTerminal(out, svc.renderer, answer, tables, wrapWidth(opts.cfg.UI.WordWrap))
			if o.rawTables && len(tables) > 0 {
				return writeRawTables(out, tables)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.doc, "doc", "d", "", "document to ask about (default: most recent upload)")
	flags.StringSliceVar(&o.tags, "tag", nil, "query tags (Graphs, Explain, Reason)")
	flags.BoolVar(&o.graph, "graph", false, "shorthand for --tag Graphs")
	flags.BoolVar(&o.explain, "explain", false, "shorthand for --tag Explain")
	flags.BoolVar(&o.reason, "reason", false, "shorthand for --tag Reason")
	flags.BoolVar(&o.html, "html", false, "write the answer and tables as HTML")
	flags.BoolVar(&o.rawTables, "raw-tables", false, "also print the extracted tables as JSON")
	flags.BoolVarP(&o.quiet, "quiet", "q", false, "do not show progress")
	return cmd
}

// tagSet merges the config defaults with the tag flags. Any tag flag
// replaces the defaults entirely.
func (o askOptions) tagSet(defaults model.TagSet) (model.TagSet, error) {
	if len(o.tags) == 0 && !o.graph && !o.explain && !o.reason {
		return defaults, nil
	}
	tags := model.NewTagSet()
	for _, name := range o.tags {
		t, ok := model.ParseTag(name)
		if !ok {
			return nil, usageError("unknown tag %q (want Graphs, Explain or Reason)", name)
		}
		tags[t] = true
	}
	if o.graph {
		tags[model.TagGraphs] = true
	}
	if o.explain {
		tags[model.TagExplain] = true
	}
	if o.reason {
		tags[model.TagReason] = true
	}
	return tags, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func writeTerminal(w io.Writer, r *markdown.Renderer, answer string, tables []model.TableExtraction, width int) {
	fmt.Fprint(w, r.Terminal(markdown.ContextAssistant, answer, width))
	if len(tables) > 0 {
		fmt.Fprintln(w, table.RenderTerminal(tables, width))
	}
}

func writeHTML(w io.Writer, r *markdown.Renderer, answer string, tables []model.TableExtraction) error {
	if _, err := io.WriteString(w, r.HTML(markdown.ContextAssistant, answer)); err != nil {
		return err
	}
	if len(tables) > 0 {
		if _, err := io.WriteString(w, table.RenderHTML(tables)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// writeRawTables prints the tables as indented JSON, highlighted when
// colors are on.
func writeRawTables(w io.Writer, tables []model.TableExtraction) error {
	data, err := json.MarshalIndent(tables, "", "  ")
	if err != nil {
		return err
	}
	if !ColorsEnabled() {
		_, err = fmt.Fprintln(w, string(data))
		return err
	}
	_, err = fmt.Fprintln(w, highlightJSON(string(data)))
	return err
}

// highlightJSON colors JSON for the terminal. Falls back to the input.
func highlightJSON(src string) string {
	lexer := lexers.Get("json")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		return src
	}
	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return src
	}
	return buf.String()
}

// =============================================================================
// STATUS LINE
// =============================================================================

// statusLine rewrites a single stderr line with the latest partial.
type statusLine struct {
	w       io.Writer
	enabled bool
	shown   bool
}

func newStatusLine(w io.Writer, enabled bool) *statusLine {
	return &statusLine{w: w, enabled: enabled}
}

func (s *statusLine) update(text string) {
	if !s.enabled {
		return
	}
	line := util.FirstLine(text)
	if line == "" {
		line = "Processing query..."
	}
	line = util.TruncateWidth(line, GetTerminalWidth()-4)
	fmt.Fprintf(s.w, "\r\033[K%s %s", PromptStyle.Render("…"), DimStyle.Render(line))
	s.shown = true
}

func (s *statusLine) clear() {
	if s.shown {
		fmt.Fprint(s.w, "\r\033[K")
		s.shown = false
	}
}
