// Package session owns the active conversation: the message stream on
// screen, its lifecycle from unsaved scratch space to stored record, and
// the switch/delete interactions with the conversation store.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"vaani/internal/chat"
	"vaani/internal/store"
)

// State of the active conversation.
type State int

const (
	// StateFresh: nothing but the seeded greeting, no stored record.
	StateFresh State = iota
	// StateUnsaved: turns beyond the greeting exist but none from the
	// user yet, so no record has been created.
	StateUnsaved
	// StateSaved: the stream mirrors a stored record.
	StateSaved
)

func (s State) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateUnsaved:
		return "unsaved"
	case StateSaved:
		return "saved"
	default:
		return "unknown"
	}
}

// ErrBusy is returned when a send arrives while a completion request is
// already in flight. Requests are never queued.
var ErrBusy = errors.New("a completion request is already in flight")

// ErrEmptyMessage is returned for blank input.
var ErrEmptyMessage = errors.New("message is empty")

// Completer produces the assistant reply for a message stream. The reply is
// always displayable content; provider failures surface as fallback text,
// not as errors.
type Completer interface {
	Complete(ctx context.Context, messages []chat.Message) string
}

// Controller drives the conversation lifecycle. All transitions run under
// one mutex, so no two overlap; the only operation that suspends is the
// outbound completion call, during which the controller reports busy and
// rejects further transitions.
type Controller struct {
	store     store.Store
	completer Completer
	logger    *slog.Logger
	newID     func() string

	mu       sync.Mutex
	state    State
	activeID string
	title    string
	messages chat.Stream
	busy     bool
}

// NewController creates a controller in the Fresh state.
func NewController(st store.Store, completer Completer, logger *slog.Logger) *Controller {
	c := &Controller{
		store:     st,
		completer: completer,
		logger:    logger,
		newID:     uuid.NewString,
	}
	c.reset()
	return c
}

func (c *Controller) reset() {
	c.state = StateFresh
	c.activeID = ""
	c.title = ""
	c.messages = chat.Seed()
}

// State reports the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveID returns the id of the stored record backing the stream, or ""
// when the conversation has not been saved.
func (c *Controller) ActiveID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeID
}

// Busy reports whether a completion request is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

// Messages returns a snapshot of the active stream.
func (c *Controller) Messages() []chat.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.messages.Snapshot()
}

// NewChat discards the active conversation and starts over from the seeded
// greeting. The store is not touched; an unsaved stream simply vanishes.
func (c *Controller) NewChat() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	c.reset()
	c.logger.Info("started new chat")
	return nil
}

// Append adds a message to the stream and persists per the lifecycle rules.
func (c *Controller) Append(msg chat.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}
	c.messages.Append(msg)
	return c.persist()
}

// persist reacts to a stream change: it creates the stored record on the
// first user turn and rewrites it on every turn after that. The seeded
// greeting alone is never persisted. Callers hold c.mu.
func (c *Controller) persist() error {
	if len(c.messages) <= 1 {
		return nil
	}

	if c.state == StateSaved {
		rec := store.Record{
			ID:        c.activeID,
			Title:     c.title,
			Preview:   chat.DerivePreview(c.messages),
			Timestamp: chat.DeriveTimestamp(),
			Messages:  c.messages.Snapshot(),
		}
		if err := c.store.Upsert(rec); err != nil {
			return fmt.Errorf("failed to save conversation: %w", err)
		}
		return nil
	}

	title := chat.DeriveTitle(c.messages)
	if title == "" {
		// no user turn yet, keep accumulating
		c.state = StateUnsaved
		return nil
	}

	rec := store.Record{
		ID:        c.newID(),
		Title:     title,
		Preview:   chat.DerivePreview(c.messages),
		Timestamp: chat.DeriveTimestamp(),
		Messages:  c.messages.Snapshot(),
	}
	if err := c.store.Upsert(rec); err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	c.activeID = rec.ID
	c.title = rec.Title
	c.state = StateSaved
	c.logger.Info("conversation saved", "id", rec.ID, "title", rec.Title)
	return nil
}

// Send appends the user's message, requests a completion, and appends the
// reply. Both appends persist. A second Send while one is in flight fails
// with ErrBusy. Store write failures are logged but do not block the chat.
func (c *Controller) Send(ctx context.Context, content string) (chat.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return chat.Message{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.busy {
		c.mu.Unlock()
		return chat.Message{}, ErrBusy
	}
	c.busy = true
	c.messages.Append(chat.Message{Role: chat.RoleUser, Content: content})
	if err := c.persist(); err != nil {
		c.logger.Error("failed to persist user message", "error", err)
	}
	snapshot := c.messages.Snapshot()
	c.mu.Unlock()

	replyContent := c.completer.Complete(ctx, snapshot)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	reply := chat.Message{Role: chat.RoleAssistant, Content: replyContent}
	c.messages.Append(reply)
	if err := c.persist(); err != nil {
		c.logger.Error("failed to persist assistant message", "error", err)
	}
	return reply, nil
}

// SelectConversation loads a stored conversation into the active stream.
// Unknown ids leave the session untouched; the record may have been deleted
// from another tab.
func (c *Controller) SelectConversation(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return false
	}

	rec, err := c.store.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		c.logger.Warn("conversation not found", "id", id)
		return false
	}
	if err != nil {
		c.logger.Warn("failed to load conversation", "id", id, "error", err)
		return false
	}

	c.messages.Replace(rec.Messages)
	c.activeID = rec.ID
	c.title = rec.Title
	c.state = StateSaved
	return true
}

// DeleteConversation removes a stored conversation. Deleting the active one
// cascades into NewChat so the stream never references a deleted record.
func (c *Controller) DeleteConversation(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.busy {
		return ErrBusy
	}

	if err := c.store.Remove(id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if id == c.activeID && c.activeID != "" {
		c.reset()
		c.logger.Info("deleted active conversation, started new chat", "id", id)
	}
	return nil
}
