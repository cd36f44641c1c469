package library

import (
	"context"
	"errors"
	"sync"

	"github.com/damacus/s3-jukebox/internal/models"
)

var (
	// ErrLoadInFlight is returned by LoadMore while a previous page request runs
	ErrLoadInFlight = errors.New("a page request is already in progress")
	// ErrNoMorePages is returned by LoadMore after the last page was appended
	ErrNoMorePages = errors.New("no more pages")
	// ErrTrackNotFound is returned when a key is not in the accumulated tracks
	ErrTrackNotFound = errors.New("track not found")
)

// PageLister fetches one catalog page starting at cursor
type PageLister interface {
	ListPage(ctx context.Context, cursor string) (models.Page, error)
}

// maxEmptyPageSkips bounds how many filtered-empty pages one LoadMore walks
// through before handing the cursor back to the caller.
const maxEmptyPageSkips = 10

// Session is one visitor's view state. All methods are safe for
// concurrent use; LoadMore releases the lock during the provider call.
type Session struct {
	ID string

	lister PageLister

	mu       sync.Mutex
	tracks   []models.Track
	keys     map[string]struct{}
	cursor   string
	loaded   bool
	inFlight bool

	query     string
	sortField SortField
	sortDir   SortDirection
	selected  string
	speed     int
}

// NewSession creates an empty session sorted by last modified, newest first
func NewSession(id string, lister PageLister) *Session {
	return &Session{
		ID:        id,
		lister:    lister,
		keys:      make(map[string]struct{}),
		sortField: SortByLastModified,
		sortDir:   Descending,
	}
}

// Snapshot is a consistent copy of the session for rendering
type Snapshot struct {
	Visible       []models.Track
	Total         int
	Query         string
	SortField     SortField
	SortDirection SortDirection
	Loaded        bool
	Loading       bool
	HasMore       bool
	Selected      *models.Track
	Speed         float64
}

// Snapshot derives the visible tracks from the current state
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Visible:       DeriveView(s.tracks, s.query, s.sortField, s.sortDir),
		Total:         len(s.tracks),
		Query:         s.query,
		SortField:     s.sortField,
		SortDirection: s.sortDir,
		Loaded:        s.loaded,
		Loading:       s.inFlight,
		HasMore:       s.loaded && s.cursor != "",
		Speed:         Speeds[s.speed],
	}
	if t, ok := s.findLocked(s.selected); ok {
		snap.Selected = &t
	}
	return snap
}

// Tracks returns a copy of the accumulated tracks in arrival order
func (s *Session) Tracks() []models.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Track(nil), s.tracks...)
}

// Cursor returns the continuation cursor for the next LoadMore
func (s *Session) Cursor() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// HasMore reports whether LoadMore can fetch another page
func (s *Session) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMoreLocked()
}

func (s *Session) hasMoreLocked() bool {
	return !s.loaded || s.cursor != ""
}

// SetSearchQuery replaces the name filter
func (s *Session) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = q
}

// SetSort toggles the direction when field is already active, otherwise
// switches to field ascending.
func (s *Session) SetSort(field SortField) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sortField == field {
		if s.sortDir == Ascending {
			s.sortDir = Descending
		} else {
			s.sortDir = Ascending
		}
		return
	}
	s.sortField = field
	s.sortDir = Ascending
}

// EnsureLoaded fetches the first page unless it was fetched or is being fetched
func (s *Session) EnsureLoaded(ctx context.Context) error {
	s.mu.Lock()
	pending := !s.loaded && !s.inFlight
	s.mu.Unlock()

	if !pending {
		return nil
	}
	_, err := s.LoadMore(ctx)
	if errors.Is(err, ErrLoadInFlight) {
		return nil
	}
	return err
}

// LoadMore fetches the next page and appends its tracks, returning how
// many were added. Pages that filter down to nothing are skipped while the
// provider reports more. On error the tracks and cursor are unchanged and
// the provider error is returned as-is.
func (s *Session) LoadMore(ctx context.Context) (int, error) {
	s.mu.Lock()
	if s.inFlight {
		s.mu.Unlock()
		return 0, ErrLoadInFlight
	}
	if !s.hasMoreLocked() {
		s.mu.Unlock()
		return 0, ErrNoMorePages
	}
	cursor := s.cursor
	s.inFlight = true
	s.mu.Unlock()

	page, err := s.fetch(ctx, cursor)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight = false
	if err != nil {
		return 0, err
	}

	added := 0
	for _, t := range page.Tracks {
		if _, dup := s.keys[t.Key]; dup {
			continue
		}
		s.keys[t.Key] = struct{}{}
		s.tracks = append(s.tracks, t)
		added++
	}
	s.cursor = page.Cursor
	s.loaded = true
	return added, nil
}

func (s *Session) fetch(ctx context.Context, cursor string) (models.Page, error) {
	page, err := s.lister.ListPage(ctx, cursor)
	for skips := 0; err == nil && len(page.Tracks) == 0 && page.HasMore() && skips < maxEmptyPageSkips; skips++ {
		page, err = s.lister.ListPage(ctx, page.Cursor)
	}
	return page, err
}

// Select makes key the playback target. changed is false when key was
// already selected.
func (s *Session) Select(key string) (track models.Track, changed bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.findLocked(key)
	if !ok {
		return models.Track{}, false, ErrTrackNotFound
	}
	changed = s.selected != key
	s.selected = key
	return t, changed, nil
}

// Find returns the accumulated track with the given key
func (s *Session) Find(key string) (models.Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(key)
}

func (s *Session) findLocked(key string) (models.Track, bool) {
	if key == "" {
		return models.Track{}, false
	}
	if _, ok := s.keys[key]; !ok {
		return models.Track{}, false
	}
	for _, t := range s.tracks {
		if t.Key == key {
			return t, true
		}
	}
	return models.Track{}, false
}

// CycleSpeed advances the playback rate and returns the new value
func (s *Session) CycleSpeed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.speed = NextSpeedIndex(s.speed)
	return Speeds[s.speed]
}
