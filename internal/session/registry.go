// Package session keeps workbook handles alive between calls from
// long-lived callers such as the MCP server.
package session

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/negokaz/excel-handle/internal/excel"
	"github.com/negokaz/excel-handle/internal/workbook"
)

var ErrUnknownHandle = errors.New("unknown workbook handle")

// Entry describes an open handle.
type Entry struct {
	ID         string    `json:"handleId"`
	Path       string    `json:"fileAbsolutePath"`
	Backend    string    `json:"backend"`
	OpenedAt   time.Time `json:"openedAt"`
	Worksheets []string  `json:"worksheets"`
}

// SheetInfo describes a worksheet returned by Registry.Worksheet.
type SheetInfo struct {
	Name       string   `json:"name"`
	Index      int      `json:"index"`
	Created    bool     `json:"created"`
	Worksheets []string `json:"worksheets"`
}

type session struct {
	handle   *workbook.Handle
	openedAt time.Time
}

// Registry owns every handle it opens. It is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	opts     []workbook.Option
	now      func() time.Time
}

// New creates a Registry. opts are applied to every Open before the
// per-call options.
func New(opts ...workbook.Option) *Registry {
	return &Registry{
		sessions: map[string]*session{},
		opts:     opts,
		now:      time.Now,
	}
}

// Open opens a workbook handle and registers it under a new id.
func (r *Registry) Open(path string, opts ...workbook.Option) (Entry, error) {
	all := append(append([]workbook.Option{}, r.opts...), opts...)
	h, err := workbook.Open(path, all...)
	if err != nil {
		return Entry{}, err
	}
	id := uuid.NewString()
	s := &session{handle: h, openedAt: r.now()}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()
	return s.entry(id), nil
}

func (r *Registry) get(id string) (*session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, id)
	}
	return s, nil
}

// Get returns the entry for id.
func (r *Registry) Get(id string) (Entry, error) {
	s, err := r.get(id)
	if err != nil {
		return Entry{}, err
	}
	return s.entry(id), nil
}

// Worksheet fetches or creates the named worksheet of handle id.
func (r *Registry) Worksheet(id, name string) (SheetInfo, error) {
	s, err := r.get(id)
	if err != nil {
		return SheetInfo{}, err
	}
	sheet, created, err := s.handle.EnsureWorksheet(name)
	if err != nil {
		return SheetInfo{}, err
	}
	defer sheet.Release()

	sheetName, err := sheet.Name()
	if err != nil {
		return SheetInfo{}, err
	}
	index, err := sheet.Index()
	if err != nil {
		return SheetInfo{}, err
	}
	return SheetInfo{
		Name:       sheetName,
		Index:      index,
		Created:    created,
		Worksheets: s.handle.WorksheetNames(),
	}, nil
}

// Save saves handle id to saveAs, or to its own path when saveAs is empty.
func (r *Registry) Save(id, saveAs string) error {
	s, err := r.get(id)
	if err != nil {
		return err
	}
	if saveAs == "" {
		return s.handle.Save()
	}
	return s.handle.SaveAs(saveAs)
}

// Close closes handle id and forgets it, even when closing fails.
func (r *Registry) Close(id string, save bool) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, id)
	}
	return s.handle.Close(save)
}

// List returns the open handles ordered by opening time.
func (r *Registry) List() []Entry {
	r.mu.Lock()
	entries := make([]Entry, 0, len(r.sessions))
	for id, s := range r.sessions {
		entries = append(entries, s.entry(id))
	}
	r.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].OpenedAt.Equal(entries[j].OpenedAt) {
			return entries[i].ID < entries[j].ID
		}
		return entries[i].OpenedAt.Before(entries[j].OpenedAt)
	})
	return entries
}

// Constants returns the constants table shared by all backends.
func (r *Registry) Constants() excel.Constants {
	return excel.DefaultConstants()
}

// ReleaseAll releases every handle without saving.
func (r *Registry) ReleaseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = map[string]*session{}
	r.mu.Unlock()

	for _, s := range sessions {
		s.handle.Release()
	}
}

func (s *session) entry(id string) Entry {
	return Entry{
		ID:         id,
		Path:       s.handle.Path(),
		Backend:    s.handle.GetBackendName(),
		OpenedAt:   s.openedAt,
		Worksheets: s.handle.WorksheetNames(),
	}
}
