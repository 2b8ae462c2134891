// Package storetest is a conformance suite for store.Storage and
// kv.TraversingBucket implementations.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/tailored-agentic-units/journal/rdf"
	"github.com/tailored-agentic-units/journal/store"
	"github.com/tailored-agentic-units/journal/store/kv"
)

// TestStorage runs the storage suite. newStorage must return an empty store.
func TestStorage(t *testing.T, newStorage func() store.Storage) {
	t.Run("CreateAssignsIdentifier", func(t *testing.T) {
		testCreateAssignsIdentifier(t, newStorage())
	})
	t.Run("CreateKeepsIdentifier", func(t *testing.T) {
		testCreateKeepsIdentifier(t, newStorage())
	})
	t.Run("CreateRejectsDuplicate", func(t *testing.T) {
		testCreateRejectsDuplicate(t, newStorage())
	})
	t.Run("InvalidDescriptor", func(t *testing.T) {
		testInvalidDescriptor(t, newStorage())
	})
	t.Run("SearchByType", func(t *testing.T) {
		testSearchByType(t, newStorage())
	})
	t.Run("SearchByProperty", func(t *testing.T) {
		testSearchByProperty(t, newStorage())
	})
	t.Run("SearchByIdentifier", func(t *testing.T) {
		testSearchByIdentifier(t, newStorage())
	})
	t.Run("SearchEmpty", func(t *testing.T) {
		testSearchEmpty(t, newStorage())
	})
	t.Run("Degree", func(t *testing.T) {
		testDegree(t, newStorage())
	})
	t.Run("ConcurrentCreate", func(t *testing.T) {
		testConcurrentCreate(t, newStorage())
	})
}

func mustCreate(t *testing.T, s store.Storage, desc *rdf.Descriptor) string {
	t.Helper()
	rs, err := s.Create(context.Background(), desc)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	about, ok := rs.First()
	if !ok {
		t.Fatal("Create() returned no results")
	}
	return about
}

func mustSearch(t *testing.T, s store.Storage, pattern *rdf.Descriptor) *rdf.ResultSet {
	t.Helper()
	rs, err := s.Search(context.Background(), pattern)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	return rs
}

func abouts(rs *rdf.ResultSet) []string {
	var out []string
	for _, r := range rs.Results {
		out = append(out, r.About)
	}
	return out
}

func testCreateAssignsIdentifier(t *testing.T, s store.Storage) {
	rs, err := s.Create(context.Background(), rdf.NewDescriptor(rdf.TypeEvent).AddProperty(rdf.DCTitle, "Standup"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if rs.Len() != 1 {
		t.Fatalf("Create() returned %d results, want 1", rs.Len())
	}
	r := rs.Results[0]
	if r.About == "" {
		t.Error("Create() did not assign an identifier")
	}
	if !slices.Contains(r.Types, rdf.TypeEvent) {
		t.Errorf("created types = %v, want %s", r.Types, rdf.TypeEvent)
	}
	if title, _ := r.Column(rdf.DCTitle); title != "Standup" {
		t.Errorf("title column = %q, want Standup", title)
	}
}

func testCreateKeepsIdentifier(t *testing.T, s store.Storage) {
	desc := rdf.NewDescriptor(rdf.TypeSpatialThing)
	desc.About = "http://example.org/place/harbor"

	if got := mustCreate(t, s, desc); got != desc.About {
		t.Errorf("Create() about = %q, want %q", got, desc.About)
	}
}

func testCreateRejectsDuplicate(t *testing.T, s store.Storage) {
	desc := rdf.NewDescriptor(rdf.TypeSpatialThing)
	desc.About = "urn:example:dup"
	mustCreate(t, s, desc)

	_, err := s.Create(context.Background(), desc)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("second Create() error = %v, want ErrAlreadyExists", err)
	}
}

func testInvalidDescriptor(t *testing.T, s store.Storage) {
	ctx := context.Background()

	if _, err := s.Search(ctx, &rdf.Descriptor{}); !errors.Is(err, store.ErrInvalidDescriptor) {
		t.Errorf("Search(empty) error = %v, want ErrInvalidDescriptor", err)
	}
	if _, err := s.Create(ctx, &rdf.Descriptor{}); !errors.Is(err, store.ErrInvalidDescriptor) {
		t.Errorf("Create(empty) error = %v, want ErrInvalidDescriptor", err)
	}
}

func testSearchByType(t *testing.T, s store.Storage) {
	var places []string
	for i := range 3 {
		places = append(places, mustCreate(t, s,
			rdf.NewDescriptor(rdf.TypeSpatialThing).AddProperty(rdf.SchemaName, fmt.Sprintf("place-%d", i))))
	}
	mustCreate(t, s, rdf.NewDescriptor(rdf.TypeOwner, rdf.TypePerson))

	rs := mustSearch(t, s, rdf.NewDescriptor(rdf.TypeSpatialThing))
	if got := abouts(rs); !slices.Equal(got, places) {
		t.Errorf("Search() = %v, want %v in creation order", got, places)
	}
	if len(rs.Sources) == 0 {
		t.Error("Search() returned no sources")
	}

	owners := mustSearch(t, s, rdf.NewDescriptor(rdf.TypeOwner, rdf.TypePerson))
	if owners.Len() != 1 {
		t.Errorf("owner search returned %d results, want 1", owners.Len())
	}
}

func testSearchByProperty(t *testing.T, s store.Storage) {
	want := mustCreate(t, s, rdf.NewDescriptor(rdf.TypeInterval).
		AddProperty(rdf.TimelineFrom, "2024-01-01T09:00").
		AddProperty(rdf.TimelineTo, "2024-01-01T10:00"))
	mustCreate(t, s, rdf.NewDescriptor(rdf.TypeInterval).
		AddProperty(rdf.TimelineFrom, "2024-02-01T09:00"))

	rs := mustSearch(t, s, rdf.NewDescriptor(rdf.TypeInterval).AddProperty(rdf.TimelineFrom, "2024-01-01T09:00"))
	if got := abouts(rs); !slices.Equal(got, []string{want}) {
		t.Errorf("Search() = %v, want [%s]", got, want)
	}
}

func testSearchByIdentifier(t *testing.T, s store.Storage) {
	a := mustCreate(t, s, rdf.NewDescriptor(rdf.TypeSpatialThing))
	mustCreate(t, s, rdf.NewDescriptor(rdf.TypeSpatialThing))

	rs := mustSearch(t, s, &rdf.Descriptor{About: a})
	if got := abouts(rs); !slices.Equal(got, []string{a}) {
		t.Errorf("Search(about) = %v, want [%s]", got, a)
	}

	missing := mustSearch(t, s, &rdf.Descriptor{About: "urn:example:missing"})
	if missing.Len() != 0 {
		t.Errorf("Search(missing) returned %d results, want 0", missing.Len())
	}
}

func testSearchEmpty(t *testing.T, s store.Storage) {
	rs := mustSearch(t, s, rdf.NewDescriptor(rdf.TypeEvent))
	if rs.Len() != 0 {
		t.Errorf("Search() on empty store returned %d results", rs.Len())
	}
	if _, ok := rs.First(); ok {
		t.Error("First() on empty result set reported a result")
	}
}

func testDegree(t *testing.T, s store.Storage) {
	busy := mustCreate(t, s, rdf.NewDescriptor(rdf.TypeSpatialThing).AddProperty(rdf.SchemaName, "busy"))
	quiet := mustCreate(t, s, rdf.NewDescriptor(rdf.TypeSpatialThing).AddProperty(rdf.SchemaName, "quiet"))
	for range 2 {
		mustCreate(t, s, rdf.NewDescriptor(rdf.TypeEvent).AddReference(rdf.EventPlace, busy))
	}

	rs := mustSearch(t, s, rdf.NewDescriptor(rdf.TypeSpatialThing))
	degrees := map[string]float64{}
	for _, r := range rs.Results {
		degrees[r.About] = r.Degree()
	}
	if degrees[busy] != 2 {
		t.Errorf("busy degree = %v, want 2", degrees[busy])
	}
	if degrees[quiet] != 0 {
		t.Errorf("quiet degree = %v, want 0", degrees[quiet])
	}

	events := mustSearch(t, s, rdf.NewDescriptor(rdf.TypeEvent).AddReference(rdf.EventPlace, busy))
	if events.Len() != 2 {
		t.Errorf("reference search returned %d results, want 2", events.Len())
	}
}

func testConcurrentCreate(t *testing.T, s store.Storage) {
	const n = 16
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(context.Background(),
				rdf.NewDescriptor(rdf.TypeEvent).AddProperty(rdf.DCTitle, fmt.Sprintf("event-%d", i)))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent Create() error = %v", err)
		}
	}

	if rs := mustSearch(t, s, rdf.NewDescriptor(rdf.TypeEvent)); rs.Len() != n {
		t.Errorf("Search() returned %d events, want %d", rs.Len(), n)
	}
}

// TestBucket runs the bucket suite. newBucket must return an empty bucket.
func TestBucket(t *testing.T, newBucket func() kv.TraversingBucket) {
	ctx := context.Background()
	b := newBucket()

	if _, err := b.Get(ctx, "missing"); !errors.Is(err, kv.ErrKeyNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrKeyNotFound", err)
	}

	for _, k := range []string{"alpha", "beta", "gamma"} {
		if err := b.Set(ctx, k, []byte("v-"+k)); err != nil {
			t.Fatalf("Set(%s) error = %v", k, err)
		}
	}

	v, err := b.Get(ctx, "beta")
	if err != nil {
		t.Fatalf("Get(beta) error = %v", err)
	}
	if string(v) != "v-beta" {
		t.Errorf("Get(beta) = %q, want v-beta", v)
	}

	if found, err := b.Has(ctx, "gamma"); err != nil || !found {
		t.Errorf("Has(gamma) = (%v, %v), want (true, nil)", found, err)
	}

	keys, err := kv.AllKeys(ctx, b)
	if err != nil {
		t.Fatalf("AllKeys() error = %v", err)
	}
	slices.Sort(keys)
	if want := []string{"alpha", "beta", "gamma"}; !slices.Equal(keys, want) {
		t.Errorf("AllKeys() = %v, want %v", keys, want)
	}

	if err := b.Delete(ctx, "alpha"); err != nil {
		t.Fatalf("Delete(alpha) error = %v", err)
	}
	if found, _ := b.Has(ctx, "alpha"); found {
		t.Error("Has(alpha) after Delete = true")
	}

	cancel := make(chan struct{})
	ch := b.Keys(cancel)
	<-ch
	close(cancel)
	for range ch {
	}
}
