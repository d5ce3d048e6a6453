// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Message: a single user or assistant message with a ULID identifier
//   - Conversation: an append-only list of messages with an integer ID
//   - Role, Status: sender and delivery state of a message
//
// # Usage
//
//	conv := model.NewConversation(1)
//	conv.Append(model.NewUserMessage("Can my landlord keep my deposit?"))
//	fmt.Println(conv.Preview(30))
package model
