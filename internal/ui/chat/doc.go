// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat view of the Self Justice TUI.

The chat package implements the terminal chat interface using the Bubble Tea
framework. It observes a store.Store and hands submitted messages to a
reply.Scheduler; replies come back as ReplyMsg values and are applied to the
store on the update loop, which is the store's only owner.

# Key Components

## Model (model.go)

The Model struct is the Bubble Tea model for the chat screen:
  - Input handling through a bubbles textinput mirrored into the store
  - Viewport for scrolling message bubbles
  - Conversation panel state ("Recent Chats")
  - Status line for notices such as "Copied!" or export results

## View Rendering (view.go, panel.go)

  - Header with the product title
  - Empty state for a new conversation
  - Message bubbles, user on the right and Legal AI on the left
  - Typing indicator while a reply is pending
  - Conversation panel with a "New Chat" row and previews

## Commands (commands.go)

  - waitForReply blocks on the scheduler's results and re-issues itself
  - /export [md|json] writes the active conversation to a file

# Usage

	st := store.New(logger)
	sched := reply.NewScheduler(reply.NewMockResponder(""))
	defer sched.Close()

	m := chat.New(chat.Options{Store: st, Scheduler: sched, Theme: styles.NewTheme("auto")})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatal(err)
	}
*/
package chat
