// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Line-mode chat for terminals without the full-screen UI.
//
// Command: chat [--doc NAME]
//
// Slash commands:
//   /reset          start a new conversation on the same document
//   /doc NAME       switch document (starts a new conversation)
//   /docs           list documents
//   /tags [TAG]     show tags, or toggle one
//   /export [FMT]   save the transcript as md, html or json
//   /quit           exit

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/peterh/liner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thewaffle/waffle/internal/config"
	"github.com/thewaffle/waffle/internal/export"
	"github.com/thewaffle/waffle/internal/markdown"
	"github.com/thewaffle/waffle/internal/model"
	"github.com/thewaffle/waffle/internal/util"
)

// =============================================================================
// CHAT COMMAND
// =============================================================================

type chatOptions struct {
	doc string
}

func newChatCommand(opts *rootOptions) *cobra.Command {
	o := chatOptions{}
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with a document in line mode",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runChat(cmd, opts, o)
		},
	}
	cmd.Flags().StringVarP(&o.doc, "doc", "d", "", "document to chat with (default: most recent upload)")
	return cmd
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// lineInput wraps liner with a persistent history file.
type lineInput struct {
	line        *liner.State
	historyFile string
}

func newLineInput() *lineInput {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	dir, err := config.ConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	in := &lineInput{line: line, historyFile: filepath.Join(dir, "chat_history")}
	if f, err := os.Open(in.historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}
	return in
}

func (in *lineInput) read(prompt string) (string, error) {
	text, err := in.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) != "" {
		in.line.AppendHistory(text)
	}
	return text, nil
}

// close saves history owner-only and releases the terminal.
func (in *lineInput) close() {
	if err := os.MkdirAll(filepath.Dir(in.historyFile), 0o700); err == nil {
		if f, err := os.OpenFile(in.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
			_, _ = in.line.WriteHistory(f)
			f.Close()
		}
	}
	in.line.Close()
}

// =============================================================================
// REPL
// =============================================================================

// chatREPL holds the state of one line-mode conversation.
type chatREPL struct {
	out       io.Writer
	svc       *services
	renderer  *markdown.Renderer
	ls        *lineSession
	tags      model.TagSet
	width     int
	exportDir string
}

func runChat(cmd *cobra.Command, opts *rootOptions, o chatOptions) error {
	svc, err := newServices(opts.cfg)
	if err != nil {
		return err
	}
	defer svc.close()

	ctx := cmd.Context()
	doc := o.doc
	if doc == "" {
		if doc, err = latestDocument(ctx, svc.backend); err != nil {
			return err
		}
	}

	r := &chatREPL{
		out:       cmd.OutOrStdout(),
		svc:       svc,
		renderer:  svc.renderer,
		ls:        newLineSession(svc.stream, doc),
		tags:      copyTags(svc.tags),
		width:     wrapWidth(opts.cfg.UI.WordWrap),
		exportDir: util.ExpandHome(opts.cfg.UI.ExportDir),
	}
	defer r.ls.close()

	in := newLineInput()
	defer in.close()

	strs := svc.language.Strings()
	fmt.Fprintln(r.out, TitleStyle.Render(strs.Greeting))
	fmt.Fprintf(r.out, "%s %s\n\n", LabelStyle.Render("Document"), ValueStyle.Render(doc))

	for {
		input, err := in.read(PromptStyle.Render("waffle> "))
		if err != nil {
			// Ctrl+C, Ctrl+D and closed stdin all end the session.
			fmt.Fprintln(r.out)
			return nil
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			if !r.command(cmd, input) {
				return nil
			}
			continue
		}

		answer, tables, err := r.ls.ask(ctx, input, r.tags, nil)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			fmt.Fprintf(r.out, "%s %s\n", ErrorStyle.Render("[Error]"), err)
			continue
		}
		writeTerminal(r.out, r.renderer, answer, tables, r.width)
	}
}

// command handles a slash command and reports whether to keep going.
func (r *chatREPL) command(cmd *cobra.Command, input string) bool {
	fields := strings.Fields(input)
	name, args := fields[0], fields[1:]

	switch name {
	case "/quit", "/exit", "/q":
		return false
	case "/reset", "/new":
		r.ls.reset()
		fmt.Fprintln(r.out, DimStyle.Render("Started a new conversation."))
	case "/doc":
		if len(args) == 0 {
			fmt.Fprintf(r.out, "%s %s\n", LabelStyle.Render("Document"), r.ls.ctrl.Document())
			break
		}
		doc := strings.Join(args, " ")
		r.ls.ctrl.Reset()
		r.ls.ctrl.SetDocument(doc)
		fmt.Fprintf(r.out, "%s %s\n", LabelStyle.Render("Document"), ValueStyle.Render(doc))
	case "/docs":
		if err := runDocs(cmd.Context(), r.out, r.svc.backend, false, time.Now()); err != nil {
			fmt.Fprintf(r.out, "%s %s\n", ErrorStyle.Render("[Error]"), err)
		}
	case "/tags":
		if len(args) > 0 {
			t, ok := model.ParseTag(args[0])
			if !ok {
				fmt.Fprintf(r.out, "%s unknown tag %q\n", ErrorStyle.Render("[Error]"), args[0])
				break
			}
			r.tags.Toggle(t)
		}
		fmt.Fprintf(r.out, "%s %s\n", LabelStyle.Render("Tags"), formatTags(r.tags))
	case "/export":
		format := ""
		if len(args) > 0 {
			format = args[0]
		}
		path, err := r.export(format)
		if err != nil {
			fmt.Fprintf(r.out, "%s %s\n", ErrorStyle.Render("[Error]"), err)
			break
		}
		fmt.Fprintf(r.out, "%s %s\n", SuccessStyle.Render("Saved"), path)
	case "/help", "/?":
		fmt.Fprintln(r.out, DimStyle.Render("/reset  /doc NAME  /docs  /tags [TAG]  /export [md|html|json]  /quit"))
	default:
		log.Debug().Str("command", name).Msg("unknown slash command")
		fmt.Fprintf(r.out, "%s unknown command %s (try /help)\n", ErrorStyle.Render("[Error]"), name)
	}
	return true
}

// export writes the transcript into the export directory.
func (r *chatREPL) export(format string) (string, error) {
	exporter, err := export.ForFormat(format, r.renderer)
	if err != nil {
		return "", err
	}
	t := &export.Transcript{
		Document:   r.ls.ctrl.Document(),
		Turns:      r.ls.ctrl.Turns(),
		Tables:     r.ls.ctrl.Tables(),
		ExportedAt: time.Now(),
	}
	return export.ToFile(t, exporter, r.exportDir)
}

func formatTags(tags model.TagSet) string {
	var parts []string
	for _, t := range model.AllTags {
		mark := "[ ]"
		if tags.Has(t) {
			mark = "[x]"
		}
		parts = append(parts, mark+" "+string(t))
	}
	return strings.Join(parts, "  ")
}

func copyTags(tags model.TagSet) model.TagSet {
	out := model.NewTagSet()
	for t, on := range tags {
		if on {
			out[t] = true
		}
	}
	return out
}
