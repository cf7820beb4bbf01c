package variantstore

import (
	"sort"
	"sync"
)

// Status is the lifecycle state of a variant within a run.
type Status int

const (
	StatusPending Status = iota
	StatusRunning
	StatusWritten
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusWritten:
		return "written"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Result records what happened to one variant.
type Result struct {
	Variant string
	Output  string
	Hash    string
	// Linked lists the linked documents written next to Output.
	Linked []string
	// Skipped is set when a memoized variant with the same hash was already
	// written.
	Skipped bool
}

// Store keeps per-variant state in sync.Maps. Each variant is written by a
// single worker, so keys rarely contend.
type Store struct {
	states  sync.Map // variant name -> Status
	results sync.Map // variant name -> Result
	errors  sync.Map // variant name -> error
	claims  sync.Map // output path -> variant name
}

// New creates a new, empty store.
func New() *Store {
	return &Store{}
}

// SetStatus updates the status of a variant.
func (s *Store) SetStatus(name string, status Status) {
	s.states.Store(name, status)
}

// GetStatus returns the status of a variant, StatusPending if none was set.
func (s *Store) GetStatus(name string) Status {
	status, ok := s.states.Load(name)
	if !ok {
		return StatusPending
	}
	return status.(Status)
}

// SetResult records the result of a variant and marks it written or skipped.
func (s *Store) SetResult(r Result) {
	s.results.Store(r.Variant, r)
	if r.Skipped {
		s.SetStatus(r.Variant, StatusSkipped)
	} else {
		s.SetStatus(r.Variant, StatusWritten)
	}
}

// SetError records the failure of a variant and marks it failed.
func (s *Store) SetError(name string, err error) {
	s.errors.Store(name, err)
	s.SetStatus(name, StatusFailed)
}

// GetError returns the recorded failure of a variant, or nil.
func (s *Store) GetError(name string) error {
	err, ok := s.errors.Load(name)
	if !ok {
		return nil
	}
	return err.(error)
}

// Claim reserves path for the named variant. It reports whether the claim
// was granted and which variant holds it.
func (s *Store) Claim(path, name string) (holder string, granted bool) {
	actual, loaded := s.claims.LoadOrStore(path, name)
	return actual.(string), !loaded
}

// Results returns every recorded result keyed by variant name.
func (s *Store) Results() map[string]Result {
	out := map[string]Result{}
	s.results.Range(func(k, v any) bool {
		out[k.(string)] = v.(Result)
		return true
	})
	return out
}

// Counts returns the number of variants in each status that has been set.
func (s *Store) Counts() map[Status]int {
	counts := map[Status]int{}
	s.states.Range(func(_, v any) bool {
		counts[v.(Status)]++
		return true
	})
	return counts
}

// Names returns the names of all variants with a status, sorted.
func (s *Store) Names() []string {
	var names []string
	s.states.Range(func(k, _ any) bool {
		names = append(names, k.(string))
		return true
	})
	sort.Strings(names)
	return names
}
