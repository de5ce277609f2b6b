// Package orchestrator fans a query out to all configured providers at
// once and tracks each provider's answer in its own bundle slot. Slots
// resolve independently: a slow or failing provider never delays the other
// two, and the caller sees partial results as they land.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"triquery/internal/history"
	"triquery/internal/normalize"
	"triquery/internal/provider"
	"triquery/internal/queue"
)

// SlotState tracks one provider's progress within a record.
type SlotState string

const (
	SlotLoading SlotState = "loading"
	SlotDone    SlotState = "done"
	SlotError   SlotState = "error"
)

// Slot is one provider's response field within a record's bundle. Error
// slots carry the synthesized display text, never a raw error.
type Slot struct {
	State SlotState `json:"state"`
	Text  string    `json:"text,omitempty"`
}

// Bundle maps provider name to that provider's slot.
type Bundle map[string]Slot

// QueryRecord is one submitted query with its response bundle. Each slot is
// written exactly once, by exactly one provider completion.
type QueryRecord struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	ParentID  uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	Bundle    Bundle    `json:"bundle"`

	// cancelled marks a removed record so late provider completions are
	// dropped instead of resurrecting it. Guarded by the session mutex.
	cancelled bool
}

// Resolved reports whether every slot has left the loading state.
func (r QueryRecord) Resolved() bool {
	for _, slot := range r.Bundle {
		if slot.State == SlotLoading {
			return false
		}
	}
	return true
}

func (r *QueryRecord) snapshot() QueryRecord {
	out := *r
	out.Bundle = make(Bundle, len(r.Bundle))
	for name, slot := range r.Bundle {
		out.Bundle[name] = slot
	}
	return out
}

var ErrParentNotFound = errors.New("parent query not found")

const (
	archiveAttempts = 3
	archiveBackoff  = 200 * time.Millisecond
)

// Orchestrator owns the provider set and hands out per-user sessions.
type Orchestrator struct {
	log       *slog.Logger
	providers []provider.Client
	queue     queue.Queue // nil disables archiving

	mu       sync.Mutex
	sessions map[string]*Session
}

func New(log *slog.Logger, providers []provider.Client, q queue.Queue) *Orchestrator {
	return &Orchestrator{
		log:       log,
		providers: providers,
		queue:     q,
		sessions:  make(map[string]*Session),
	}
}

// Session returns the state container for one user, creating it on first
// use. The empty userID keys the anonymous session, which is never archived.
func (o *Orchestrator) Session(userID string) *Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.sessions[userID]
	if !ok {
		s = &Session{orch: o, userID: userID}
		o.sessions[userID] = s
	}
	return s
}

// Session holds one user's in-memory query history, newest first. All list
// and slot mutations happen under its mutex, so a slot update is an atomic
// replace-by-identity.
type Session struct {
	orch   *Orchestrator
	userID string

	mu      sync.Mutex
	records []*QueryRecord
}

// Submit creates the record with every slot loading, prepends it, and fires
// all provider calls without awaiting any of them. The returned snapshot is
// the record's initial state; slots resolve asynchronously.
func (s *Session) Submit(ctx context.Context, question string, parentID uuid.UUID) (QueryRecord, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return QueryRecord{}, errors.New("question required")
	}

	prompt := question
	if parentID != uuid.Nil {
		parent, ok := s.Get(parentID)
		if !ok {
			return QueryRecord{}, ErrParentNotFound
		}
		prompt = followUpPrompt(parent, question)
	}

	rec := &QueryRecord{
		ID:        uuid.New(),
		Question:  question,
		ParentID:  parentID,
		CreatedAt: time.Now(),
		Bundle:    make(Bundle, len(s.orch.providers)),
	}
	for _, p := range s.orch.providers {
		rec.Bundle[p.Name()] = Slot{State: SlotLoading}
	}

	s.mu.Lock()
	s.records = append([]*QueryRecord{rec}, s.records...)
	snap := rec.snapshot()
	s.mu.Unlock()

	wrapped := provider.Wrap(prompt)
	// Provider calls outlive the submitting request; each adapter applies
	// its own deadline.
	callCtx := context.WithoutCancel(ctx)

	var wg sync.WaitGroup
	for _, p := range s.orch.providers {
		wg.Add(1)
		go func(p provider.Client) {
			defer wg.Done()
			raw, err := p.Invoke(callCtx, wrapped)
			if err != nil {
				s.update(rec.ID, p.Name(), Slot{State: SlotError, Text: provider.ErrorText(p.Name(), err)})
				return
			}
			s.update(rec.ID, p.Name(), Slot{State: SlotDone, Text: normalize.Normalize(raw)})
		}(p)
	}
	go func() {
		wg.Wait()
		s.archive(callCtx, rec.ID)
	}()

	return snap, nil
}

// Get returns a snapshot of one record by identity.
func (s *Session) Get(id uuid.UUID) (QueryRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID == id {
			return r.snapshot(), true
		}
	}
	return QueryRecord{}, false
}

// List returns snapshots of the session history, newest first. Slot updates
// never reorder the list.
func (s *Session) List() []QueryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]QueryRecord, len(s.records))
	for i, r := range s.records {
		out[i] = r.snapshot()
	}
	return out
}

// Remove drops a record from the session and marks it cancelled so a
// late-arriving provider update cannot reinsert or mutate it. The stored
// copy, if any, is untouched.
func (s *Session) Remove(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.records {
		if r.ID == id {
			r.cancelled = true
			s.records = append(s.records[:i:i], s.records[i+1:]...)
			return true
		}
	}
	return false
}

// update resolves one provider's slot on the record with the given
// identity. Updates against cancelled or absent records are dropped.
func (s *Session) update(id uuid.UUID, providerName string, slot Slot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.records {
		if r.ID != id {
			continue
		}
		if r.cancelled {
			return
		}
		r.Bundle[providerName] = slot
		return
	}
}

type archiveTaskPayload struct {
	UserID string         `json:"user_id"`
	Record history.Record `json:"record"`
}

// archive hands the fully resolved bundle to the archiver, best-effort.
// Anonymous sessions and deleted records are skipped; a failed enqueue is
// logged and the in-memory record stands.
func (s *Session) archive(ctx context.Context, id uuid.UUID) {
	if s.userID == "" || s.orch.queue == nil {
		return
	}
	rec, ok := s.Get(id)
	if !ok {
		return
	}

	bundle, err := json.Marshal(rec.Bundle)
	if err != nil {
		s.orch.log.Error("failed to marshal bundle for archive", "id", id, "err", err)
		return
	}
	payload := archiveTaskPayload{
		UserID: s.userID,
		Record: history.Record{
			ID:        rec.ID,
			Question:  rec.Question,
			ParentID:  rec.ParentID,
			Providers: providerNames(rec.Bundle),
			Bundle:    bundle,
			CreatedAt: rec.CreatedAt,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		s.orch.log.Error("failed to marshal archive payload", "id", id, "err", err)
		return
	}
	task := queue.Task{Type: queue.TaskTypeArchive, Payload: body}
	if err := queue.EnqueueWithRetry(ctx, s.orch.queue, task, archiveAttempts, archiveBackoff); err != nil {
		s.orch.log.Error("failed to enqueue archive task; history kept in memory only", "id", id, "err", err)
	}
}

// followUpPrompt carries the parent's question and every resolved answer
// forward, so each provider gets full prior context without server-side
// conversation state.
func followUpPrompt(parent QueryRecord, question string) string {
	var b strings.Builder
	b.WriteString("Previous question:\n")
	b.WriteString(parent.Question)
	b.WriteString("\n\nPrevious answers:\n")
	for _, name := range providerNames(parent.Bundle) {
		slot := parent.Bundle[name]
		if slot.State == SlotLoading {
			continue
		}
		fmt.Fprintf(&b, "[%s]\n%s\n\n", name, slot.Text)
	}
	b.WriteString("New question:\n")
	b.WriteString(question)
	return b.String()
}

func providerNames(bundle Bundle) []string {
	names := make([]string, 0, len(bundle))
	for name := range bundle {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
