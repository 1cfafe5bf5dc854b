package oredb

import (
	"fmt"
	"testing"
)

func TestBloomAddContains(t *testing.T) {
	b := newBloom()

	b.Add("alpha")
	if !b.Contains("alpha") {
		t.Error("Contains after Add = false")
	}
	if b.Contains("beta") {
		t.Error("Contains(beta) = true on a near-empty filter")
	}

	b.Reset()
	if b.Contains("alpha") {
		t.Error("Contains after Reset = true")
	}
}

func TestBloomFalsePositiveRate(t *testing.T) {
	b := newBloom()
	for i := range 10000 {
		b.Add(fmt.Sprintf("in-%d", i))
	}

	fp := 0
	for i := range 10000 {
		if b.Contains(fmt.Sprintf("out-%d", i)) {
			fp++
		}
	}
	if fp > 300 {
		t.Errorf("false positives = %d/10000, want under 3%%", fp)
	}
}

func TestDBBloomLookups(t *testing.T) {
	db := openTestFile(t, `[{"guid":"a"},{"guid":""}]`, Config{Bloom: true})

	if ok, _ := db.Exists("a"); !ok {
		t.Error("Exists(a) = false for a loaded document")
	}
	if ok, _ := db.Exists(""); !ok {
		t.Error("Exists(\"\") = false for a document with a blank guid")
	}

	db.Insert(newDoc("guid", "b"))
	if _, err := db.Find("b"); err != nil {
		t.Errorf("Find inserted: %v", err)
	}

	db.Delete("b")
	if ok, _ := db.Exists("b"); ok {
		t.Error("Exists after Delete = true")
	}

	ok, _ := db.Update("missing", newDoc("x", 1))
	if ok {
		t.Error("Update of missing id matched")
	}
}

func TestDBBloomRebuiltOnCommit(t *testing.T) {
	db := openTestFile(t, `[{"guid":"a"}]`, Config{Bloom: true})

	db.Delete("a")
	if !db.bloom.Contains("a") {
		t.Fatal("Delete is expected to leave the bit set until a rebuild")
	}
	db.Commit()
	if db.bloom.Contains("a") {
		t.Error("bloom filter not rebuilt on Commit")
	}
}
