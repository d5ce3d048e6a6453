// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package reply produces assistant replies in the background.
//
// A Scheduler runs one goroutine per pending reply, keyed by the ID of the
// user message that triggered it. Each task waits a fixed delay, calls a
// Responder and posts a Result; canceled tasks post nothing.
//
// # Key Types
//
//   - Responder: the reply backend; MockResponder echoes a fixed template
//   - Scheduler: delayed, cancellable reply tasks
//   - Task: one scheduled reply with its status
//   - Result: the reply text or a classified failure
//
// # Failure kinds
//
// Responder errors are reported as ErrTimeout, ErrService or ErrMalformed.
// Classify maps any error to its kind and Describe gives the text shown
// in a failed reply.
//
// # Usage
//
//	sched := reply.NewScheduler(reply.NewMockResponder(""), reply.WithDelay(500*time.Millisecond))
//	defer sched.Close()
//	sched.Schedule(reply.Request{Key: msg.ID, ConversationID: conv.ID, History: conv.Messages()})
//	res := <-sched.Results()
package reply
