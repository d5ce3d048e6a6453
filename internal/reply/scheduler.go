// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reply

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/selfjustice/internal/model"
)

const (
	// DefaultDelay is how long a reply waits before the responder is called.
	DefaultDelay = 500 * time.Millisecond

	// DefaultTimeout bounds a single responder call.
	DefaultTimeout = 30 * time.Second

	// defaultBuffer is the capacity of the results channel.
	defaultBuffer = 64
)

// =============================================================================
// REQUEST / RESULT
// =============================================================================

// Request describes a reply to produce.
type Request struct {
	// Key is the triggering user message ID.
	Key string

	// ConversationID is the conversation the reply belongs to.
	ConversationID int

	// History is the conversation as it was when the message was sent.
	History []model.Message
}

// Result is posted once per task that was not canceled.
type Result struct {
	Key            string
	TaskID         string
	ConversationID int
	Text           string
	Err            error
}

// Failed reports whether the result carries a failure.
func (r Result) Failed() bool {
	return r.Err != nil
}

// =============================================================================
// SCHEDULER
// =============================================================================

// Scheduler runs one goroutine per pending reply. Each waits the configured
// delay, calls the Responder under a timeout and posts a Result. Results are
// applied by whichever goroutine reads Results, which keeps the conversation
// state single-owner.
type Scheduler struct {
	responder Responder
	delay     time.Duration
	timeout   time.Duration
	logger    zerolog.Logger

	results chan Result
	tasks   map[string]*Task
	closed  bool
	mu      sync.Mutex
	wg      sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithDelay sets the reply delay. Negative values are treated as zero.
func WithDelay(d time.Duration) Option {
	return func(s *Scheduler) {
		if d < 0 {
			d = 0
		}
		s.delay = d
	}
}

// WithTimeout sets the per-call responder timeout. Zero disables it.
func WithTimeout(d time.Duration) Option {
	return func(s *Scheduler) {
		s.timeout = d
	}
}

// WithLogger sets the scheduler's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = logger.With().Str("component", "reply").Logger()
	}
}

// WithBuffer sets the capacity of the results channel.
func WithBuffer(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.results = make(chan Result, n)
		}
	}
}

// NewScheduler creates a scheduler for the given responder.
func NewScheduler(responder Responder, opts ...Option) *Scheduler {
	s := &Scheduler{
		responder: responder,
		delay:     DefaultDelay,
		timeout:   DefaultTimeout,
		logger:    zerolog.Nop(),
		results:   make(chan Result, defaultBuffer),
		tasks:     make(map[string]*Task),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Delay returns the fixed reply delay.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Results returns the channel results are posted on. It is closed by Close.
func (s *Scheduler) Results() <-chan Result {
	return s.results
}

// =============================================================================
// SCHEDULING
// =============================================================================

// Schedule starts a reply task for req.
func (s *Scheduler) Schedule(req Request) (*Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	if _, exists := s.tasks[req.Key]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateKey, req.Key)
	}

	ctx, cancel := context.WithCancel(context.Background())
	task := newTask(req.Key, req.ConversationID, cancel)
	s.tasks[req.Key] = task

	history := make([]model.Message, len(req.History))
	copy(history, req.History)

	s.wg.Add(1)
	go s.run(ctx, task, history)

	s.logger.Debug().
		Str("task_id", task.ID).
		Str("key", task.Key).
		Int("conversation_id", task.ConversationID).
		Dur("delay", s.delay).
		Msg("reply scheduled")

	return task, nil
}

// Cancel stops the reply for key. It returns false if no reply was pending.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	task, ok := s.tasks[key]
	if ok {
		delete(s.tasks, key)
	}
	s.mu.Unlock()

	if !ok || !task.Cancel() {
		return false
	}
	s.logger.Debug().Str("task_id", task.ID).Str("key", key).Msg("reply canceled")
	return true
}

// CancelConversation stops every pending reply for a conversation and
// returns the canceled keys.
func (s *Scheduler) CancelConversation(conversationID int) []string {
	s.mu.Lock()
	var keys []string
	for key, task := range s.tasks {
		if task.ConversationID == conversationID {
			keys = append(keys, key)
		}
	}
	s.mu.Unlock()

	sort.Strings(keys)
	canceled := keys[:0]
	for _, key := range keys {
		if s.Cancel(key) {
			canceled = append(canceled, key)
		}
	}
	return canceled
}

// Pending returns snapshots of the unfinished tasks, oldest first.
func (s *Scheduler) Pending() []TaskInfo {
	s.mu.Lock()
	infos := make([]TaskInfo, 0, len(s.tasks))
	for _, task := range s.tasks {
		infos = append(infos, task.Info())
	}
	s.mu.Unlock()

	sort.Slice(infos, func(i, j int) bool {
		if infos[i].CreatedAt.Equal(infos[j].CreatedAt) {
			return infos[i].Key < infos[j].Key
		}
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Close cancels all pending replies, waits for their goroutines and closes
// the results channel. It is safe to call more than once.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	tasks := s.tasks
	s.tasks = make(map[string]*Task)
	s.mu.Unlock()

	for _, task := range tasks {
		task.Cancel()
	}
	s.wg.Wait()
	close(s.results)
}

// =============================================================================
// TASK EXECUTION
// =============================================================================

// run executes a single reply task.
func (s *Scheduler) run(ctx context.Context, task *Task, history []model.Message) {
	defer s.wg.Done()
	defer s.forget(task)

	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	if !task.setStatus(TaskStatusRunning) {
		return
	}

	text, err := s.call(ctx, history)
	if ctx.Err() != nil {
		// Canceled while the responder was running.
		return
	}

	result := Result{
		Key:            task.Key,
		TaskID:         task.ID,
		ConversationID: task.ConversationID,
		Text:           text,
		Err:            err,
	}

	status := TaskStatusComplete
	if err != nil {
		status = TaskStatusFailed
	}
	if !task.setStatus(status) {
		return
	}

	select {
	case s.results <- result:
	case <-ctx.Done():
		return
	}

	if err != nil {
		s.logger.Warn().Err(err).Str("task_id", task.ID).Str("key", task.Key).Msg("reply failed")
	} else {
		s.logger.Debug().Str("task_id", task.ID).Str("key", task.Key).Msg("reply ready")
	}
}

// call invokes the responder under the configured timeout and normalizes
// its error into a failure kind.
func (s *Scheduler) call(ctx context.Context, history []model.Message) (string, error) {
	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	text, err := s.responder.Respond(callCtx, history)
	if err == nil && callCtx.Err() == context.DeadlineExceeded {
		err = callCtx.Err()
	}
	if err != nil {
		kind := Classify(err)
		switch {
		case errors.Is(err, kind):
			return "", err
		case kind == ErrTimeout && s.timeout > 0:
			return "", fmt.Errorf("%w after %v", ErrTimeout, s.timeout)
		default:
			return "", fmt.Errorf("%w: %v", kind, err)
		}
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: empty body", ErrMalformed)
	}
	return text, nil
}

// forget removes a finished task from the pending set.
func (s *Scheduler) forget(task *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.tasks[task.Key]; ok && current == task {
		delete(s.tasks, task.Key)
	}
}
