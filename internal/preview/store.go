// Package preview owns locally created image previews and decides which image is displayed.
package preview

import (
	"log"
	"sync"

	"github.com/google/uuid"

	"idreview/internal/domain"
	"idreview/internal/port"
)

type entry struct {
	name        string
	contentType string
	data        []byte
}

// Store keeps preview bytes in memory until the owning session releases them.
// It implements port.PreviewStore.
type Store struct {
	mu       sync.Mutex
	entries  map[uuid.UUID]*entry
	released map[uuid.UUID]int
}

// NewStore creates an empty preview store.
func NewStore() *Store {
	return &Store{
		entries:  make(map[uuid.UUID]*entry),
		released: make(map[uuid.UUID]int),
	}
}

func (s *Store) Create(name, contentType string, data []byte) (port.PreviewHandle, error) {
	if len(data) == 0 {
		return port.PreviewHandle{}, domain.ErrEmptyFile
	}
	id := uuid.New()
	buf := make([]byte, len(data))
	copy(buf, data)

	s.mu.Lock()
	s.entries[id] = &entry{name: name, contentType: contentType, data: buf}
	s.mu.Unlock()

	return port.PreviewHandle{ID: id, ContentType: contentType}, nil
}

func (s *Store) Open(id uuid.UUID) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok {
		if s.released[id] > 0 {
			return nil, "", domain.ErrPreviewReleased
		}
		return nil, "", domain.ErrPreviewNotFound
	}
	return e.data, e.contentType, nil
}

func (s *Store) Release(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		if s.released[id] > 0 {
			log.Printf("preview.Store.Release: handle %s released twice", id)
			return domain.ErrPreviewReleased
		}
		return domain.ErrPreviewNotFound
	}
	delete(s.entries, id)
	s.released[id]++
	return nil
}

// Len returns the number of live previews.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Released reports how many times id was successfully released (0 or 1).
func (s *Store) Released(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released[id]
}
