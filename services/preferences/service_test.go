package preferences

import (
	"context"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/nijaru/vod-highlights/models"
	"github.com/nijaru/vod-highlights/repository/memory"
	"github.com/nijaru/vod-highlights/repository/sqlite"
)

func TestStore_LoadEmpty(t *testing.T) {
	s := NewStore(memory.NewRepository())

	p, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(p.Liked) != 0 || len(p.Disliked) != 0 {
		t.Errorf("expected empty preferences, got %+v", p)
	}
	if p.Liked == nil || p.Disliked == nil {
		t.Error("expected non-nil empty lists")
	}
}

func TestStore_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name     string
		liked    string
		disliked string
	}{
		{"liked not json", "{not json", `["x"]`},
		{"disliked wrong type", `["a"]`, `{"a":1}`},
		{"list of numbers", `[1,2]`, `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := memory.NewRepository()
			repo.Put(LikedKey, tt.liked)
			repo.Put(DislikedKey, tt.disliked)

			p, err := NewStore(repo).Load(context.Background())
			if err != nil {
				t.Fatalf("corrupt data must not be fatal, got %v", err)
			}
			if len(p.Liked) != 0 || len(p.Disliked) != 0 {
				t.Errorf("expected no stored preferences, got %+v", p)
			}
		})
	}
}

func TestStore_LoadNormalizesOverlap(t *testing.T) {
	repo := memory.NewRepository()
	repo.Put(LikedKey, `["a","a","b"]`)
	repo.Put(DislikedKey, `["b","c"]`)

	p, err := NewStore(repo).Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !reflect.DeepEqual(p.Liked, []string{"a", "b"}) || !reflect.DeepEqual(p.Disliked, []string{"c"}) {
		t.Errorf("unexpected normalization: %+v", p)
	}
}

func TestStore_RecordPersistsEachMutation(t *testing.T) {
	repo := memory.NewRepository()
	s := NewStore(repo)
	ctx := context.Background()

	if _, err := s.RecordLiked(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if repo.Writes() != 1 {
		t.Fatalf("expected 1 write, got %d", repo.Writes())
	}

	p, err := s.RecordDisliked(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if len(p.Liked) != 0 || !reflect.DeepEqual(p.Disliked, []string{"a"}) {
		t.Errorf("expected a moved to disliked, got %+v", p)
	}

	raw, _, _ := repo.Get(ctx, LikedKey)
	if raw != "[]" {
		t.Errorf("liked key = %s, want []", raw)
	}
	raw, _, _ = repo.Get(ctx, DislikedKey)
	if raw != `["a"]` {
		t.Errorf(`disliked key = %s, want ["a"]`, raw)
	}

	if _, err := s.Clear(ctx, "a"); err != nil {
		t.Fatal(err)
	}
	if got := s.Snapshot(); len(got.Liked)+len(got.Disliked) != 0 {
		t.Errorf("expected cleared preferences, got %+v", got)
	}
	if repo.Writes() != 3 {
		t.Errorf("expected 3 writes, got %d", repo.Writes())
	}
}

func TestStore_MutualExclusion(t *testing.T) {
	s := NewStore(memory.NewRepository())
	ctx := context.Background()
	descs := []string{"a", "b", "c"}

	ops := []func(context.Context, string) (models.Preferences, error){
		s.RecordLiked, s.RecordDisliked, s.Clear, s.RecordLiked, s.RecordLiked, s.RecordDisliked,
	}

	for i, op := range ops {
		for j, d := range descs {
			if (i+j)%2 == 0 {
				continue
			}
			p, err := op(ctx, d)
			if err != nil {
				t.Fatal(err)
			}
			for _, l := range p.Liked {
				for _, dl := range p.Disliked {
					if l == dl {
						t.Fatalf("%q present in both lists: %+v", l, p)
					}
				}
			}
		}
	}
}

func TestStore_RoundTripSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	ctx := context.Background()

	db, err := sqlite.InitDB(path, sqlite.DefaultDBConfig())
	if err != nil {
		t.Fatal(err)
	}
	s := NewStore(sqlite.NewRepository(db, sqlite.DefaultDBConfig()))
	for i := 0; i < 5; i++ {
		if _, err := s.RecordLiked(ctx, fmt.Sprintf("liked %d", i)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.RecordDisliked(ctx, "liked 2"); err != nil {
		t.Fatal(err)
	}
	want := s.Snapshot()
	db.Close()

	db, err = sqlite.InitDB(path, sqlite.DefaultDBConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	got, err := NewStore(sqlite.NewRepository(db, sqlite.DefaultDBConfig())).Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	sort.Strings(want.Liked)
	sort.Strings(got.Liked)
	if !reflect.DeepEqual(got.Liked, want.Liked) || !reflect.DeepEqual(got.Disliked, want.Disliked) {
		t.Errorf("round trip mismatch: got %+v want %+v", got, want)
	}
}

type failingRepo struct{ *memory.Repository }

func (f *failingRepo) SetMany(context.Context, map[string]string) error {
	return fmt.Errorf("disk full")
}

func TestStore_FailedWriteKeepsState(t *testing.T) {
	s := NewStore(&failingRepo{memory.NewRepository()})

	if _, err := s.RecordLiked(context.Background(), "a"); err == nil {
		t.Fatal("expected persistence error")
	}
	if got := s.Snapshot(); len(got.Liked) != 0 {
		t.Errorf("in-memory state changed despite failed write: %+v", got)
	}
}
