package store

import (
	"github.com/soffa-projects/loctool/log"
	"github.com/soffa-projects/loctool/record"
)

// DefaultSourceLocale is the source locale of a store built without WithSourceLocale.
const DefaultSourceLocale = "zxx-XX"

type entryKey struct {
	hash    string
	context string
}

type projectContext struct {
	project string
	context string
}

// Store is an ordered, indexed set of records. A record is stored once per
// (hash key, context); later duplicates are ignored. A Store is not safe for
// concurrent use.
type Store struct {
	sourceLocale string
	records      []*record.Record
	byHash       map[entryKey]*record.Record
	bySource     map[entryKey]*record.Record
	projects     []string
	contexts     map[string][]string
	locales      map[projectContext][]string
	dirty        bool
}

type Option func(*Store)

func WithSourceLocale(locale string) Option {
	return func(s *Store) {
		if locale != "" {
			s.sourceLocale = locale
		}
	}
}

// WithRecords preloads records. The store still starts clean.
func WithRecords(records []*record.Record) Option {
	return func(s *Store) {
		s.AddAll(records)
		s.dirty = false
	}
}

func New(opts ...Option) *Store {
	s := &Store{sourceLocale: DefaultSourceLocale}
	s.reset()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) reset() {
	s.records = nil
	s.byHash = map[entryKey]*record.Record{}
	s.bySource = map[entryKey]*record.Record{}
	s.projects = nil
	s.contexts = map[string][]string{}
	s.locales = map[projectContext][]string{}
}

func (s *Store) SourceLocale() string {
	return s.sourceLocale
}

// Add inserts r unless an entry with the same hash key and context exists. It reports
// whether the store changed.
func (s *Store) Add(r *record.Record) bool {
	if r == nil {
		return false
	}
	key := entryKey{hash: r.HashKey(), context: r.Context}
	if _, exists := s.byHash[key]; exists {
		return false
	}
	s.records = append(s.records, r)
	s.byHash[key] = r
	if r.AutoKey && r.Type == record.TypeString {
		sourceKey := entryKey{hash: r.Text, context: r.Context}
		if _, taken := s.bySource[sourceKey]; !taken {
			s.bySource[sourceKey] = r
		} else {
			log.Debug("duplicate auto-keyed source %q in context %q, keeping the first", r.Text, r.Context)
		}
	}
	if _, known := s.contexts[r.Project]; !known {
		s.projects = append(s.projects, r.Project)
	}
	s.contexts[r.Project] = appendUnique(s.contexts[r.Project], r.Context)
	pc := projectContext{project: r.Project, context: r.Context}
	s.locales[pc] = appendUnique(s.locales[pc], r.Locale)
	s.dirty = true
	return true
}

// AddAll adds each record in order and returns how many were inserted.
func (s *Store) AddAll(records []*record.Record) int {
	added := 0
	for _, r := range records {
		if s.Add(r) {
			added++
		}
	}
	return added
}

// AddSet merges the entries of other. A nil or empty other is a no-op.
func (s *Store) AddSet(other *Store) int {
	if other == nil || other.Size() == 0 {
		return 0
	}
	return s.AddAll(other.records)
}

func (s *Store) Size() int {
	return len(s.records)
}

// Clear drops every entry and index. The dirty flag is left alone.
func (s *Store) Clear() {
	s.reset()
}

func (s *Store) IsDirty() bool {
	return s.dirty
}

func (s *Store) SetClean() {
	s.dirty = false
}

func appendUnique(values []string, value string) []string {
	for _, v := range values {
		if v == value {
			return values
		}
	}
	return append(values, value)
}
