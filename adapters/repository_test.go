package adapters

import (
	"context"
	"testing"

	f "github.com/soffa-projects/loctool/core"
	"github.com/soffa-projects/loctool/errors"
	"github.com/soffa-projects/loctool/record"
	"github.com/soffa-projects/loctool/store"
	"github.com/soffa-projects/loctool/test"
)

var _ f.ResourceRepository = (*ResourceRepository)(nil)

func newRepository(t *testing.T) *ResourceRepository {
	cnx, err := NewConnection(test.New(t).DatabaseURL())
	if err != nil {
		t.Fatal(err)
	}
	repo := NewResourceRepository(cnx)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleStore() *store.Store {
	s := store.New()
	s.AddAll([]*record.Record{
		record.New(record.Props{Project: "web", Key: "hello", Text: "Hello", PathName: "src/home.go", Comment: "greeting"}),
		record.New(record.Props{Project: "web", Key: "planets", Array: []string{"Mercury", "Venus", "Earth"}}),
		record.New(record.Props{Project: "web", Key: "items", Context: "cart", Plurals: map[string]string{"one": "1 item", "other": "%d items"}}),
		record.New(record.Props{Project: "web", Key: "hello", Locale: "de-DE", Text: "Hallo", Origin: record.OriginTarget, State: "translated"}),
		record.New(record.Props{Project: "ios", Key: "terms", Text: "Terms", AutoKey: true, DoNotTranslate: true}),
	})
	return s
}

// ------------------------------------------------------------------------------------------------------------------
// Connection Tests
// ------------------------------------------------------------------------------------------------------------------

func TestNewConnection_SQLite(t *testing.T) {
	assert := test.NewAssertions(t)

	cnx, err := NewConnection(test.New(t).DatabaseURL())

	assert.Nil(err)
	assert.Nil(cnx.Ping(context.Background()))
	assert.Nil(cnx.Close())
}

func TestNewConnection_InvalidURL(t *testing.T) {
	assert := test.NewAssertions(t)

	cnx, err := NewConnection("invalid://database")

	assert.NotNil(err)
	assert.Nil(cnx)
	assert.Equals(errors.GetCode(err), errors.CodeTechnical)

	_, err = NewConnection("")
	assert.NotNil(err)
}

// ------------------------------------------------------------------------------------------------------------------
// Repository Tests
// ------------------------------------------------------------------------------------------------------------------

func TestRepository_SaveAndLoad(t *testing.T) {
	assert := test.NewAssertions(t)
	repo := newRepository(t)
	ctx := context.Background()
	s := sampleStore()

	saved, err := repo.Save(ctx, s)

	assert.Nil(err)
	assert.Equals(saved, 8)
	assert.False(s.IsDirty())

	loaded, err := repo.Load(ctx, "web")
	assert.Nil(err)
	assert.Equals(loaded.Size(), 4)
	assert.False(loaded.IsDirty())
	for _, want := range s.GetAll() {
		if want.Project != "web" {
			continue
		}
		got, ok := loaded.Get(want.HashKey(), want.Context)
		assert.True(ok, want.Key)
		assert.True(got.Equals(want), want.Key)
		assert.Equals(got.Origin, want.Origin)
		assert.Equals(got.Comment, want.Comment)
		assert.Equals(got.PathName, want.PathName)
		assert.Equals(got.State, want.State)
	}

	planets, ok := loaded.Lookup(store.Lookup{Project: "web", Key: "planets", Type: record.TypeArray})
	assert.True(ok)
	assert.Equals(planets.Array, []string{"Mercury", "Venus", "Earth"})

	ios, err := repo.Load(ctx, "ios")
	assert.Nil(err)
	terms, ok := ios.Lookup(store.Lookup{Project: "ios", Key: "terms"})
	assert.True(ok)
	assert.True(terms.AutoKey)
	assert.True(terms.DoNotTranslate)
}

func TestRepository_CleanStoreIsNotSaved(t *testing.T) {
	assert := test.NewAssertions(t)
	repo := newRepository(t)
	s := sampleStore()
	s.SetClean()

	saved, err := repo.Save(context.Background(), s)

	assert.Nil(err)
	assert.Equals(saved, 0)
	loaded, err := repo.Load(context.Background(), "web")
	assert.Nil(err)
	assert.Equals(loaded.Size(), 0)
}

func TestRepository_Upsert(t *testing.T) {
	assert := test.NewAssertions(t)
	repo := newRepository(t)
	ctx := context.Background()
	_, err := repo.Save(ctx, sampleStore())
	assert.Nil(err)

	update := store.New()
	update.Add(record.New(record.Props{Project: "web", Key: "hello", Text: "Hello!", Comment: "updated"}))
	saved, err := repo.Save(ctx, update)

	assert.Nil(err)
	assert.Equals(saved, 1)
	loaded, err := repo.Load(ctx, "web")
	assert.Nil(err)
	assert.Equals(loaded.Size(), 4)
	hello, ok := loaded.Lookup(store.Lookup{Project: "web", Key: "hello"})
	assert.True(ok)
	assert.Equals(hello.Text, "Hello!")
	assert.Equals(hello.Comment, "updated")
}

func TestRepository_RemovedSlotsAreDeleted(t *testing.T) {
	assert := test.NewAssertions(t)
	repo := newRepository(t)
	ctx := context.Background()
	_, err := repo.Save(ctx, sampleStore())
	assert.Nil(err)

	update := store.New()
	update.AddAll([]*record.Record{
		record.New(record.Props{Project: "web", Key: "planets", Array: []string{"Mercury"}}),
		record.New(record.Props{Project: "web", Key: "items", Context: "cart", Plurals: map[string]string{"other": "%d items"}}),
	})
	saved, err := repo.Save(ctx, update)

	assert.Nil(err)
	assert.Equals(saved, 2)
	loaded, err := repo.Load(ctx, "web")
	assert.Nil(err)
	planets, ok := loaded.Lookup(store.Lookup{Project: "web", Key: "planets", Type: record.TypeArray})
	assert.True(ok)
	assert.Equals(planets.Array, []string{"Mercury"})
	items, ok := loaded.Lookup(store.Lookup{Project: "web", Key: "items", Context: "cart", Type: record.TypePlural})
	assert.True(ok)
	assert.Equals(items.Plurals, map[string]string{"other": "%d items"})
}

func TestFromRows_OrdinalOutOfRange(t *testing.T) {
	assert := test.NewAssertions(t)
	rows := []resourceRow{
		{ID: "a", Project: "web", Locale: "en-US", Key: "planets", ResType: "array", Ordinal: 1, Text: "Venus"},
		{ID: "b", Project: "web", Locale: "en-US", Key: "planets", ResType: "array", Ordinal: record.MaxOrdinal + 1, Text: "Pluto"},
	}

	records := fromRows(rows)

	assert.Len(records, 1)
	assert.Equals(records[0].Array, []string{"", "Venus"})
}
