// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/selfjustice/internal/reply"
)

// =============================================================================
// REPLY MESSAGES
// =============================================================================

// ReplyMsg delivers a finished reply from the scheduler.
type ReplyMsg struct {
	Result reply.Result
}

// RepliesClosedMsg signals that the scheduler's results channel was closed.
type RepliesClosedMsg struct{}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusMsg shows a transient notice in the status bar.
type StatusMsg struct {
	Text  string
	Error bool
}
