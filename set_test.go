package oredb

import (
	"errors"
	"slices"
	"testing"

	"github.com/google/uuid"
)

func TestInsertGeneratesGUID(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
	}{
		{"missing", newDoc("name", "x")},
		{"empty", newDoc("guid", "", "name", "x")},
		{"whitespace", newDoc("guid", "  \t", "name", "x")},
		{"null", newDoc("guid", nil, "name", "x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openTestDB(t)
			if err := db.Insert(tt.doc); err != nil {
				t.Fatalf("Insert: %v", err)
			}

			id := tt.doc.ID()
			if _, err := uuid.Parse(id); err != nil {
				t.Fatalf("generated guid %q is not a uuid: %v", id, err)
			}
			stored, err := db.Find(id)
			if err != nil {
				t.Fatalf("Find generated guid: %v", err)
			}
			if name, _ := stored.GetString("name"); name != "x" {
				t.Errorf("stored name = %q, want x", name)
			}
		})
	}
}

func TestInsertGeneratesUniqueGUIDs(t *testing.T) {
	db := openTestDB(t)

	seen := make(map[string]bool)
	for range 100 {
		d := newDoc("n", 1)
		db.Insert(d)
		if seen[d.ID()] {
			t.Fatalf("duplicate generated guid %q", d.ID())
		}
		seen[d.ID()] = true
	}
}

func TestInsertKeepsGUID(t *testing.T) {
	db := openTestDB(t)

	db.Insert(newDoc("guid", "f4411f8f1e824610a98f30d852783d2b", "first", "John"))

	d, err := db.Find("f4411f8f1e824610a98f30d852783d2b")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got := mustJSON(t, d); got != `{"guid":"f4411f8f1e824610a98f30d852783d2b","first":"John"}` {
		t.Errorf("stored = %s", got)
	}
}

func TestInsertAppends(t *testing.T) {
	db := openTestFile(t, `[{"guid":"a"}]`, Config{})

	db.Insert(newDoc("guid", "b"))
	db.Insert(newDoc("guid", "c"))

	if got := ids(t, db); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("order = %v, want [a b c]", got)
	}
}

func TestInsertCopiesDocument(t *testing.T) {
	db := openTestDB(t)

	d := newDoc("guid", "a", "n", 1)
	db.Insert(d)
	d.Set("n", 2)

	stored, _ := db.Find("a")
	if got := mustJSON(t, stored); got != `{"guid":"a","n":1}` {
		t.Errorf("stored = %s, caller mutation leaked in", got)
	}
}

func TestInsertDuplicatePermissive(t *testing.T) {
	db := openTestDB(t)

	if err := db.Insert(newDoc("guid", "a", "n", 1)); err != nil {
		t.Fatal(err)
	}
	if err := db.Insert(newDoc("guid", "a", "n", 2)); err != nil {
		t.Fatalf("duplicate Insert: %v", err)
	}
	if n, _ := db.Len(); n != 2 {
		t.Errorf("Len = %d, want 2", n)
	}
}

func TestInsertDuplicateStrict(t *testing.T) {
	db := openTestFile(t, `[{"guid":"a"}]`, Config{UniqueIDs: true})

	err := db.Insert(newDoc("guid", "a"))
	if !errors.Is(err, ErrExists) {
		t.Errorf("Insert duplicate: got %v, want ErrExists", err)
	}
	if n, _ := db.Len(); n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}

	if err := db.Insert(newDoc("name", "fresh")); err != nil {
		t.Errorf("Insert with generated guid: %v", err)
	}
}

func TestInsertNil(t *testing.T) {
	db := openTestDB(t)

	if err := db.Insert(nil); !errors.Is(err, ErrNilDocument) {
		t.Errorf("Insert(nil) = %v, want ErrNilDocument", err)
	}
}

func TestInsertUnencodable(t *testing.T) {
	db := openTestDB(t)

	if err := db.Insert(newDoc("guid", "a", "ch", make(chan int))); err == nil {
		t.Error("Insert of unencodable value succeeded")
	}
	if n, _ := db.Len(); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

func TestBatch(t *testing.T) {
	db := openTestDB(t)

	err := db.Batch(newDoc("guid", "a"), newDoc("guid", "b"), newDoc("name", "c"))
	if err != nil {
		t.Fatalf("Batch: %v", err)
	}
	got := ids(t, db)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] == "" {
		t.Errorf("Batch = %v", got)
	}
}

func TestBatchAllOrNothing(t *testing.T) {
	db := openTestDB(t)

	if err := db.Batch(newDoc("guid", "a"), nil); err == nil {
		t.Fatal("Batch with nil succeeded")
	}
	if n, _ := db.Len(); n != 0 {
		t.Errorf("Len = %d after failed Batch, want 0", n)
	}

	strict := openTestDB(t)
	strict.config.UniqueIDs = true
	if err := strict.Batch(newDoc("guid", "a"), newDoc("guid", "a")); !errors.Is(err, ErrExists) {
		t.Errorf("Batch with internal duplicate: got %v, want ErrExists", err)
	}
	if n, _ := strict.Len(); n != 0 {
		t.Errorf("Len = %d after rejected Batch, want 0", n)
	}
}

func TestUpdateReplacesInPlace(t *testing.T) {
	db := openTestFile(t, `[{"guid":"A","x":1},{"guid":"B","x":2}]`, Config{})

	ok, err := db.Update("A", newDoc("x", 99))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !ok {
		t.Fatal("Update reported no match")
	}

	a, _ := db.Find("A")
	if got := mustJSON(t, a); got != `{"x":99,"guid":"A"}` {
		t.Errorf("Find(A) = %s", got)
	}
	b, _ := db.Find("B")
	if got := mustJSON(t, b); got != `{"guid":"B","x":2}` {
		t.Errorf("Find(B) = %s", got)
	}
	if got := ids(t, db); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("order = %v, want [A B]", got)
	}
}

func TestUpdateNotFound(t *testing.T) {
	db := openTestFile(t, `[{"guid":"A","x":1}]`, Config{})
	before, _ := db.Records()

	ok, err := db.Update("Z", newDoc("x", 5))
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if ok {
		t.Error("Update of missing id reported a match")
	}

	after, _ := db.Records()
	if len(after) != len(before) || !after[0].Equal(before[0]) {
		t.Error("Update of missing id changed the store")
	}
}

func TestUpdateOverridesGUID(t *testing.T) {
	db := openTestFile(t, `[{"guid":"A","x":1}]`, Config{})

	d := newDoc("guid", "other", "x", 2)
	db.Update("A", d)

	if _, err := db.Find("other"); err != ErrNotFound {
		t.Errorf("Find(other) = %v, want ErrNotFound", err)
	}
	a, _ := db.Find("A")
	if got := mustJSON(t, a); got != `{"guid":"A","x":2}` {
		t.Errorf("Find(A) = %s", got)
	}
	if d.ID() != "other" {
		t.Errorf("caller document guid = %q, want untouched", d.ID())
	}
}

func TestUpdateFirstDuplicateOnly(t *testing.T) {
	db := openTestFile(t, `[{"guid":"x","n":1},{"guid":"x","n":2}]`, Config{})

	db.Update("x", newDoc("n", 3))

	docs, _ := db.Records()
	if got := mustJSON(t, docs[0]); got != `{"n":3,"guid":"x"}` {
		t.Errorf("first = %s", got)
	}
	if got := mustJSON(t, docs[1]); got != `{"guid":"x","n":2}` {
		t.Errorf("second = %s", got)
	}
}

func TestUpdateNil(t *testing.T) {
	db := openTestDB(t)

	if _, err := db.Update("a", nil); !errors.Is(err, ErrNilDocument) {
		t.Errorf("Update(nil) = %v, want ErrNilDocument", err)
	}
}
