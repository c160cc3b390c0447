package store

import (
	"slices"

	"github.com/soffa-projects/loctool/h"
	"github.com/soffa-projects/loctool/record"
)

// Lookup addresses one record. Type defaults to string and Locale to record.DefaultLocale.
type Lookup struct {
	Project string
	Locale  string
	Key     string
	Context string
	Type    record.Type
}

// Criteria selects records by field. Nil fields are not constrained.
type Criteria struct {
	Project  *string
	Context  *string
	Locale   *string
	Type     *record.Type
	Datatype *string
	Origin   *string
	State    *string
	PathName *string
}

// Get finds the record with the given hash key and context.
func (s *Store) Get(hashKey string, context string) (*record.Record, bool) {
	r, ok := s.byHash[entryKey{hash: hashKey, context: context}]
	return r, ok
}

func (s *Store) Lookup(l Lookup) (*record.Record, bool) {
	if l.Key == "" {
		return nil, false
	}
	t := l.Type
	if t == "" {
		t = record.TypeString
	}
	locale := h.FirstNonEmpty(l.Locale, record.DefaultLocale)
	return s.Get(record.HashKey(t, l.Project, locale, l.Key), l.Context)
}

// GetBySource finds an auto-keyed string record by its source text. When several share
// the same text and context the first inserted wins.
func (s *Store) GetBySource(text string, context string) (*record.Record, bool) {
	if text == "" {
		return nil, false
	}
	r, ok := s.bySource[entryKey{hash: text, context: context}]
	return r, ok
}

// GetBy returns the records matching every set field of c, in insertion order.
func (s *Store) GetBy(c Criteria) []*record.Record {
	out := []*record.Record{}
	for _, r := range s.records {
		if c.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (c Criteria) matches(r *record.Record) bool {
	return match(c.Project, r.Project) &&
		match(c.Context, r.Context) &&
		match(c.Locale, r.Locale) &&
		(c.Type == nil || *c.Type == r.Type) &&
		match(c.Datatype, r.Datatype) &&
		match(c.Origin, r.Origin) &&
		match(c.State, r.State) &&
		match(c.PathName, r.PathName)
}

func match(want *string, got string) bool {
	return want == nil || *want == got
}

// GetAll returns every record in insertion order.
func (s *Store) GetAll() []*record.Record {
	return append([]*record.Record{}, s.records...)
}

// Projects lists the distinct projects in first-seen order, nil when the store is empty.
func (s *Store) Projects() []string {
	return slices.Clone(s.projects)
}

// Contexts lists the distinct contexts of a project. The empty context counts.
func (s *Store) Contexts(project string) []string {
	return slices.Clone(s.contexts[project])
}

func (s *Store) Locales(project string, context string) []string {
	return slices.Clone(s.locales[projectContext{project: project, context: context}])
}

// TargetLocales lists the locales of a project that hold no source record.
func (s *Store) TargetLocales(project string) []string {
	var sources, all []string
	for _, r := range s.records {
		if r.Project != project {
			continue
		}
		all = appendUnique(all, r.Locale)
		if r.IsSource() {
			sources = appendUnique(sources, r.Locale)
		}
	}
	return h.Without(all, sources...)
}

// GeneratePseudo adds a pseudo-localized copy of every source record in locale and
// returns how many were added.
func (s *Store) GeneratePseudo(locale string, t record.Transform) int {
	if locale == "" || t == nil {
		return 0
	}
	added := 0
	for _, r := range s.GetAll() {
		if !r.IsSource() || r.Locale == locale {
			continue
		}
		if s.Add(r.GeneratePseudo(locale, t)) {
			added++
		}
	}
	return added
}
