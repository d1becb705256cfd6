package core

import (
	"strings"
	"sync"
	"time"
)

const DefaultDuplicateWindow = 2 * time.Second

type recentDelivery struct {
	url string
	at  time.Time
}

// DuplicateFilter suppresses re-delivery of the same external url inside a
// short window. It keeps a single slot, not a history: a different url
// always replaces it.
type DuplicateFilter struct {
	window time.Duration
	Now    func() time.Time

	mu   sync.Mutex
	last *recentDelivery
}

func NewDuplicateFilter(window time.Duration) *DuplicateFilter {
	if window <= 0 {
		window = DefaultDuplicateWindow
	}
	return &DuplicateFilter{
		window: window,
		Now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (f *DuplicateFilter) Window() time.Duration {
	if f == nil {
		return 0
	}
	return f.window
}

// Accept returns false when url matches the stored delivery and less than
// the window has passed since it; otherwise it records (url, now).
func (f *DuplicateFilter) Accept(url string, now time.Time) bool {
	if f == nil {
		return true
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return true
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.last != nil && f.last.url == url && now.Sub(f.last.at) < f.window {
		return false
	}
	f.last = &recentDelivery{url: url, at: now}
	return true
}

// AcceptNow is Accept with the filter clock.
func (f *DuplicateFilter) AcceptNow(url string) bool {
	return f.Accept(url, f.now())
}

func (f *DuplicateFilter) Reset() {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = nil
}

func (f *DuplicateFilter) now() time.Time {
	if f != nil && f.Now != nil {
		return f.Now().UTC()
	}
	return time.Now().UTC()
}
