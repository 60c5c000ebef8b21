// Package memstore keeps contact messages and site statistics in process memory.
// It backs store.type=memory and is lost on restart.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/mikey/portfolio-backend/internal/core"
	"go.uber.org/zap"
)

// Store is an in-memory implementation of core.MessageStore and core.StatsStore
type Store struct {
	mu        sync.RWMutex
	messages  map[string]*core.ContactMessage
	counters  map[string]int64
	downloads []*core.ResumeDownload
	logger    *zap.Logger
}

var (
	_ core.MessageStore = (*Store)(nil)
	_ core.StatsStore   = (*Store)(nil)
)

// New creates an empty in-memory store
func New(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		messages: make(map[string]*core.ContactMessage),
		counters: make(map[string]int64),
		logger:   logger,
	}
}

// Create stores a new message
func (s *Store) Create(ctx context.Context, msg *core.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.messages[msg.ID]; exists {
		return fmt.Errorf("message %s already exists", msg.ID)
	}
	s.messages[msg.ID] = copyMessage(msg)
	return nil
}

// Get returns a copy of the stored message
func (s *Store) Get(ctx context.Context, id string) (*core.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msg, ok := s.messages[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return copyMessage(msg), nil
}

// Replace overwrites an existing message
func (s *Store) Replace(ctx context.Context, msg *core.ContactMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.messages[msg.ID]; !ok {
		return core.ErrNotFound
	}
	s.messages[msg.ID] = copyMessage(msg)
	return nil
}

// Find returns the messages matching filter, newest first
func (s *Store) Find(ctx context.Context, filter core.MessageFilter) ([]*core.ContactMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*core.ContactMessage, 0, len(s.messages))
	for _, msg := range s.messages {
		if matches(msg, filter) {
			out = append(out, copyMessage(msg))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if filter.Limit > 0 && int64(len(out)) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// IncrementCounter adds one to the named counter
func (s *Store) IncrementCounter(ctx context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters[name]++
	return s.counters[name], nil
}

// Counter returns the named counter, zero when it was never incremented
func (s *Store) Counter(ctx context.Context, name string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.counters[name], nil
}

// RecordDownload appends a resume download to the log
func (s *Store) RecordDownload(ctx context.Context, download *core.ResumeDownload) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := *download
	s.downloads = append(s.downloads, &d)
	s.logger.Debug("Recorded resume download", zap.String("id", d.ID))
	return nil
}

// CountDownloads returns the number of recorded resume downloads
func (s *Store) CountDownloads(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return int64(len(s.downloads)), nil
}

func matches(msg *core.ContactMessage, f core.MessageFilter) bool {
	if f.Status != "" && msg.Status != f.Status {
		return false
	}
	if f.Spam == nil && f.Priority == "" && f.Category == "" {
		return true
	}

	a := msg.Analysis
	if a == nil {
		return false
	}
	if f.Spam != nil && a.IsSpam != *f.Spam {
		return false
	}
	if f.Priority != "" && a.Priority != f.Priority {
		return false
	}
	if f.Category != "" && a.Category != f.Category {
		return false
	}
	return true
}

func copyMessage(msg *core.ContactMessage) *core.ContactMessage {
	c := *msg
	if msg.Analysis != nil {
		a := *msg.Analysis
		a.Flags = append([]string(nil), msg.Analysis.Flags...)
		c.Analysis = &a
	}
	return &c
}
