// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question for selfjustice.
//
// Command: ask "question"
// Short:   Ask a single question and print the reply
//
// Examples:
//   selfjustice ask "Can my landlord keep my deposit?"
//   echo "What is a tort?" | selfjustice ask
//   selfjustice ask --raw "What is a tort?"
//   selfjustice --json ask "What is a tort?"

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/selfjustice/internal/model"
	"github.com/jeranaias/selfjustice/internal/reply"
	"github.com/jeranaias/selfjustice/internal/store"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

var (
	markdownRenderer     *glamour.TermRenderer
	markdownRendererOnce sync.Once
)

// renderMarkdown renders markdown for terminal display, or returns content
// unchanged if glamour is unavailable.
func renderMarkdown(content string) string {
	markdownRendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(GetTerminalWidth()-4),
		)
		if err == nil {
			markdownRenderer = r
		}
	})
	if markdownRenderer == nil {
		return content
	}

	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAskCommand submits one message, waits for the reply and prints it.
// A failed reply is returned as an error, except in JSON mode.
func HandleAskCommand(ctx context.Context, env *Env, args Args) error {
	query := args.Query
	if query == "" && !IsTTY() && env.Stdin != nil {
		data, err := io.ReadAll(env.Stdin)
		if err != nil {
			return NewCommandError("ask", "read", "could not read stdin", err)
		}
		query = strings.TrimRight(string(data), "\r\n")
	}
	if strings.TrimSpace(query) == "" {
		return ErrMissingArgument("question", `selfjustice ask "Can my landlord keep my deposit?"`)
	}

	sched := NewScheduler(env.Config, env.Logger)
	defer sched.Close()

	conv, err := Ask(ctx, store.New(env.Logger), sched, query)
	if err != nil {
		return NewCommandError("ask", "reply", "no reply", err)
	}

	last, _ := conv.Last()
	if args.JSON {
		// The failure is reported in the data, not as an error.
		return NewJSONResponse("ask", AskData{
			Query:    query,
			Response: last.Text,
			Failed:   last.Failed(),
			Messages: conv.Messages(),
		}).Fprint(env.Stdout)
	}

	if last.Failed() {
		return NewCommandError("ask", "reply", last.Text, nil)
	}
	displayResponse(env.Stdout, last.Text, env.Config.UI.Markdown && !args.Raw && IsStdoutTTY())
	return nil
}

// Ask submits query to st's active conversation and applies the reply.
// It returns the conversation holding the question and the reply.
func Ask(ctx context.Context, st *store.Store, sched *reply.Scheduler, query string) (*model.Conversation, error) {
	p, ok := st.SubmitMessage(query)
	if !ok {
		return nil, ErrMissingArgument("question", `selfjustice ask "What is a tort?"`)
	}

	if _, err := sched.Schedule(p.Request()); err != nil {
		return nil, err
	}

	for {
		select {
		case res, ok := <-sched.Results():
			if !ok {
				return nil, reply.ErrClosed
			}
			st.Apply(res)
			if res.Key == p.Key {
				return p.Conversation, nil
			}
		case <-ctx.Done():
			sched.Cancel(p.Key)
			st.CancelReply(p.Key)
			return nil, ctx.Err()
		}
	}
}

// displayResponse prints a reply, rendered as markdown when asked to.
func displayResponse(w io.Writer, text string, markdown bool) {
	if markdown {
		fmt.Fprint(w, renderMarkdown(text))
		return
	}
	fmt.Fprintln(w, text)
}
