// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package reply

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// TASK STATUS
// =============================================================================

// TaskStatus represents the current state of a reply task.
type TaskStatus string

const (
	// TaskStatusWaiting indicates the task is sleeping out the reply delay
	TaskStatusWaiting TaskStatus = "Waiting"

	// TaskStatusRunning indicates the responder is being called
	TaskStatusRunning TaskStatus = "Running"

	// TaskStatusComplete indicates a reply was posted
	TaskStatusComplete TaskStatus = "Complete"

	// TaskStatusFailed indicates a failure was posted
	TaskStatusFailed TaskStatus = "Failed"

	// TaskStatusCanceled indicates the task was canceled and posted nothing
	TaskStatusCanceled TaskStatus = "Canceled"
)

// String returns the string representation of the task status.
func (s TaskStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusComplete || s == TaskStatusFailed || s == TaskStatusCanceled
}

// =============================================================================
// TASK STRUCTURE
// =============================================================================

// Task is one scheduled reply.
type Task struct {
	// ID is a unique identifier for this task, used in logs
	ID string

	// Key is the ID of the user message that triggered the reply
	Key string

	// ConversationID is the conversation the reply will be appended to
	ConversationID int

	// CreatedAt is when the task was scheduled
	CreatedAt time.Time

	status TaskStatus
	cancel context.CancelFunc
	mu     sync.RWMutex
}

// TaskInfo is a point-in-time copy of a task's state.
type TaskInfo struct {
	ID             string
	Key            string
	ConversationID int
	Status         TaskStatus
	CreatedAt      time.Time
}

func newTask(key string, conversationID int, cancel context.CancelFunc) *Task {
	return &Task{
		ID:             uuid.New().String(),
		Key:            key,
		ConversationID: conversationID,
		CreatedAt:      time.Now(),
		status:         TaskStatusWaiting,
		cancel:         cancel,
	}
}

// =============================================================================
// TASK METHODS
// =============================================================================

// Status returns the current task status (thread-safe).
func (t *Task) Status() TaskStatus {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// setStatus moves the task forward. Terminal states are sticky, so a task
// canceled while its responder runs stays canceled.
func (t *Task) setStatus(status TaskStatus) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.status.IsTerminal() {
		return false
	}
	t.status = status
	return true
}

// Cancel stops the task. It returns false if the task had already finished.
func (t *Task) Cancel() bool {
	ok := t.setStatus(TaskStatusCanceled)
	t.cancel()
	return ok
}

// Info returns a snapshot of the task.
func (t *Task) Info() TaskInfo {
	return TaskInfo{
		ID:             t.ID,
		Key:            t.Key,
		ConversationID: t.ConversationID,
		Status:         t.Status(),
		CreatedAt:      t.CreatedAt,
	}
}
