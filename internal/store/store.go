// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the conversation state of a chat session.
package store

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/jeranaias/selfjustice/internal/model"
	"github.com/jeranaias/selfjustice/internal/reply"
)

// =============================================================================
// PENDING REPLY
// =============================================================================

// Pending is a reply the store is waiting for. It is keyed by the ID of the
// user message that triggered it and targets the conversation that was
// active when that message was sent.
type Pending struct {
	Key          string
	Conversation *model.Conversation
}

// Request returns the scheduler request for this reply.
func (p *Pending) Request() reply.Request {
	return reply.Request{
		Key:            p.Key,
		ConversationID: p.Conversation.ID,
		History:        p.Conversation.Messages(),
	}
}

// =============================================================================
// STORE
// =============================================================================

// Store holds the conversation collection, the active conversation, the
// input buffer and the pending replies. It is owned by one goroutine and
// does no locking.
type Store struct {
	conversations []*model.Conversation
	active        *model.Conversation
	input         string
	pending       map[string]*Pending
	order         []string
	logger        zerolog.Logger
}

// initialDraftID is the ID of the draft a new store starts with. Every ID
// StartNewConversation hands out is above it.
const initialDraftID = 0

// New creates a store with an empty draft conversation as the active one.
func New(logger zerolog.Logger) *Store {
	s := &Store{
		conversations: make([]*model.Conversation, 0),
		pending:       make(map[string]*Pending),
		logger:        logger.With().Str("component", "store").Logger(),
	}
	s.active = model.NewConversation(initialDraftID)
	return s
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Active returns the conversation new messages are appended to.
func (s *Store) Active() *model.Conversation {
	return s.active
}

// Conversations returns the collection in storage order.
func (s *Store) Conversations() []*model.Conversation {
	out := make([]*model.Conversation, len(s.conversations))
	copy(out, s.conversations)
	return out
}

// Displayed returns the collection most recent first.
func (s *Store) Displayed() []*model.Conversation {
	out := make([]*model.Conversation, len(s.conversations))
	for i, conv := range s.conversations {
		out[len(out)-1-i] = conv
	}
	return out
}

// Find returns the persisted conversation with the given ID.
func (s *Store) Find(id int) (*model.Conversation, bool) {
	for _, conv := range s.conversations {
		if conv.ID == id {
			return conv, true
		}
	}
	return nil, false
}

// Input returns the input buffer.
func (s *Store) Input() string {
	return s.input
}

// SetInput replaces the input buffer.
func (s *Store) SetInput(text string) {
	s.input = text
}

// Pending returns the pending replies in submission order.
func (s *Store) Pending() []*Pending {
	out := make([]*Pending, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.pending[key])
	}
	return out
}

// HasPending reports whether a reply is outstanding for conv. Drafts can
// share an ID, so the conversation itself is compared, not its ID.
func (s *Store) HasPending(conv *model.Conversation) bool {
	for _, p := range s.pending {
		if p.Conversation == conv {
			return true
		}
	}
	return false
}

// PendingFor returns the keys of the outstanding replies for conv, in
// submission order.
func (s *Store) PendingFor(conv *model.Conversation) []string {
	var keys []string
	for _, key := range s.order {
		if s.pending[key].Conversation == conv {
			keys = append(keys, key)
		}
	}
	return keys
}

// =============================================================================
// OPERATIONS
// =============================================================================

// SubmitMessage appends text as a user message to the active conversation,
// clears the input buffer and records a pending reply. Empty or
// whitespace-only text is ignored and leaves all state untouched.
func (s *Store) SubmitMessage(text string) (*Pending, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	msg := model.NewUserMessage(text)
	s.active.Append(msg)
	s.input = ""

	p := &Pending{Key: msg.ID, Conversation: s.active}
	s.pending[p.Key] = p
	s.order = append(s.order, p.Key)

	s.logger.Debug().
		Str("key", p.Key).
		Int("conversation_id", s.active.ID).
		Int("length", len(text)).
		Msg("message submitted")
	return p, true
}

// Submit submits the input buffer.
func (s *Store) Submit() (*Pending, bool) {
	return s.SubmitMessage(s.input)
}

// CompleteReply appends the reply to the pending reply's conversation and
// upserts that conversation into the collection. Unknown keys are ignored.
func (s *Store) CompleteReply(key, text string) bool {
	p, ok := s.take(key)
	if !ok {
		return false
	}
	p.Conversation.Append(model.NewAssistantMessage(text))
	s.upsert(p.Conversation)

	s.logger.Debug().Str("key", key).Int("conversation_id", p.Conversation.ID).Msg("reply completed")
	return true
}

// FailReply is CompleteReply for a failed reply: it appends a failed
// assistant message describing the failure kind.
func (s *Store) FailReply(key string, err error) bool {
	p, ok := s.take(key)
	if !ok {
		return false
	}
	p.Conversation.Append(model.NewFailedMessage(reply.Describe(err)))
	s.upsert(p.Conversation)

	s.logger.Warn().Err(err).Str("key", key).Int("conversation_id", p.Conversation.ID).Msg("reply failed")
	return true
}

// Apply resolves a scheduler result.
func (s *Store) Apply(res reply.Result) bool {
	if res.Err != nil {
		return s.FailReply(res.Key, res.Err)
	}
	return s.CompleteReply(res.Key, res.Text)
}

// CancelReply forgets a pending reply without appending anything.
func (s *Store) CancelReply(key string) bool {
	if _, ok := s.take(key); !ok {
		return false
	}
	s.logger.Debug().Str("key", key).Msg("reply canceled")
	return true
}

// StartNewConversation makes a new empty conversation active. Its ID is one
// more than the largest persisted ID, or 1 for an empty collection. Drafts
// are not counted, so two calls in a row yield the same ID.
func (s *Store) StartNewConversation() *model.Conversation {
	s.active = model.NewConversation(s.nextID())
	s.logger.Debug().Int("conversation_id", s.active.ID).Msg("conversation started")
	return s.active
}

// SelectConversation makes a persisted conversation active, discarding the
// current draft. The input buffer is kept. Conversations that are not in
// the collection are rejected.
func (s *Store) SelectConversation(conv *model.Conversation) bool {
	if conv == nil {
		return false
	}
	found, ok := s.Find(conv.ID)
	if !ok || found != conv {
		return false
	}
	s.active = conv
	s.logger.Debug().Int("conversation_id", conv.ID).Msg("conversation selected")
	return true
}

// =============================================================================
// HELPERS
// =============================================================================

// nextID returns max(persisted IDs)+1, or 1.
func (s *Store) nextID() int {
	maxID := 0
	for _, conv := range s.conversations {
		if conv.ID > maxID {
			maxID = conv.ID
		}
	}
	return maxID + 1
}

// upsert replaces the collection entry with the same ID or appends.
func (s *Store) upsert(conv *model.Conversation) {
	for i, existing := range s.conversations {
		if existing.ID == conv.ID {
			s.conversations[i] = conv
			return
		}
	}
	s.conversations = append(s.conversations, conv)
}

// take removes and returns a pending reply.
func (s *Store) take(key string) (*Pending, bool) {
	p, ok := s.pending[key]
	if !ok {
		return nil, false
	}
	delete(s.pending, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return p, true
}
