package registry

import (
	"testing"
	"time"

	"github.com/hyperjump/kensho/internal/models"
)

func TestStore_AllocateDocumentID(t *testing.T) {
	s := NewStore()
	for want := uint64(1); want <= 5; want++ {
		if got := s.AllocateDocumentID(); got != want {
			t.Fatalf("expected id %d, got %d", want, got)
		}
	}
}

func TestStore_PutDocument(t *testing.T) {
	s := NewStore()
	doc := &models.DocumentEntry{ID: s.AllocateDocumentID(), Commitment: "c1", Owner: "alice", RegisteredAt: time.Now()}
	if err := s.PutDocument(doc); err != nil {
		t.Fatal(err)
	}
	if err := s.PutDocument(doc); err == nil {
		t.Error("expected error on duplicate id")
	}

	got, ok := s.GetDocument(1)
	if !ok {
		t.Fatal("document 1 not found")
	}
	if got.Commitment != "c1" || got.Owner != "alice" {
		t.Errorf("got %+v", got)
	}
	if _, ok := s.GetDocument(2); ok {
		t.Error("document 2 should not exist")
	}
}

func TestStore_ReferenceIndexFirstWins(t *testing.T) {
	s := NewStore()
	first := &models.DocumentEntry{ID: s.AllocateDocumentID(), Commitment: "c1", Owner: "alice"}
	second := &models.DocumentEntry{ID: s.AllocateDocumentID(), Commitment: "c1", Owner: "bob"}
	if err := s.PutDocument(first); err != nil {
		t.Fatal(err)
	}
	if err := s.PutDocument(second); err != nil {
		t.Fatal(err)
	}

	id, ok := s.ResolveCommitment("c1")
	if !ok {
		t.Fatal("commitment c1 should resolve")
	}
	if id != 1 {
		t.Errorf("expected first registration to win, got id %d", id)
	}
	if _, ok := s.ResolveCommitment("unknown"); ok {
		t.Error("unknown commitment should not resolve")
	}
}

func TestStore_ListOrder(t *testing.T) {
	s := NewStore()
	commitments := []string{"c1", "c2", "c3"}
	for _, c := range commitments {
		doc := &models.DocumentEntry{ID: s.AllocateDocumentID(), Commitment: c, Owner: "alice"}
		if err := s.PutDocument(doc); err != nil {
			t.Fatal(err)
		}
	}
	list := s.ListDocuments()
	if len(list) != len(commitments) {
		t.Fatalf("expected %d documents, got %d", len(commitments), len(list))
	}
	for i, doc := range list {
		if doc.ID != uint64(i+1) {
			t.Errorf("position %d: expected id %d, got %d", i, i+1, doc.ID)
		}
		if doc.Commitment != commitments[i] {
			t.Errorf("position %d: expected commitment %s, got %s", i, commitments[i], doc.Commitment)
		}
	}
}

func TestStore_PutAdvancesCounterOnReplay(t *testing.T) {
	// Boot replay inserts persisted entries with their original ids; the
	// counter must end up past the highest replayed id.
	s := NewStore()
	if err := s.PutModel(&models.ModelEntry{ID: 3, ModelHash: "m3", ModelName: "three", Approved: true}); err != nil {
		t.Fatal(err)
	}
	if got := s.AllocateModelID(); got != 4 {
		t.Errorf("expected next model id 4, got %d", got)
	}
}

func TestStore_Reset(t *testing.T) {
	s := NewStore()
	_ = s.PutDocument(&models.DocumentEntry{ID: s.AllocateDocumentID(), Commitment: "c1"})
	_ = s.PutModel(&models.ModelEntry{ID: s.AllocateModelID(), ModelHash: "m1", ModelName: "demo", Approved: true})
	_ = s.PutQuery(&models.QueryEntry{ID: s.AllocateQueryID(), DocumentID: 1, ModelID: 1, Status: models.StatusVerified})

	s.Reset()
	d, m, q := s.Counts()
	if d != 0 || m != 0 || q != 0 {
		t.Errorf("expected empty store, got %d/%d/%d", d, m, q)
	}
	if got := s.AllocateDocumentID(); got != 1 {
		t.Errorf("expected counter reset to 1, got %d", got)
	}
	if _, ok := s.ResolveCommitment("c1"); ok {
		t.Error("index should be cleared on reset")
	}
}
