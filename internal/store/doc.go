// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the conversation state of a chat session.
//
// The Store keeps the persisted conversations, the active conversation and
// the input buffer. Submitting a message records a Pending reply; the
// caller hands its Request to a reply.Scheduler and later resolves it with
// Apply, CompleteReply, FailReply or CancelReply. A conversation enters the
// collection when its first reply resolves.
//
// The Store is not safe for concurrent use. It belongs to the goroutine
// that runs the UI loop, which also drains the scheduler's results.
package store
