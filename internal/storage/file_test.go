package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileJournal_AppendAndLoad(t *testing.T) {
	p := filepath.Join(t.TempDir(), "nested", "deliveries.jsonl")
	j, err := NewFileJournal(p)
	if err != nil {
		t.Fatalf("init journal: %v", err)
	}

	d1 := Delivery{Timestamp: time.Unix(1, 0).UTC(), Text: "summary", Delivered: true}
	d2 := Delivery{Timestamp: time.Unix(2, 0).UTC(), Text: "urgent", Delivered: false}
	if err := j.Append(d1); err != nil {
		t.Fatalf("append1: %v", err)
	}
	if err := j.Append(d2); err != nil {
		t.Fatalf("append2: %v", err)
	}

	got, err := j.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 || got[0].Text != "summary" || got[1].Delivered {
		t.Fatalf("unexpected deliveries: %+v", got)
	}

	st, err := os.Stat(p)
	if err != nil || st.Size() == 0 {
		t.Fatalf("file not written")
	}
}

func TestFileJournal_SkipsGarbage(t *testing.T) {
	p := filepath.Join(t.TempDir(), "d.jsonl")
	if err := os.WriteFile(p, []byte("not json\n\n{\"text\":\"ok\"}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	j, err := NewFileJournal(p)
	if err != nil {
		t.Fatal(err)
	}
	got, err := j.Load()
	if err != nil || len(got) != 1 || got[0].Text != "ok" {
		t.Fatalf("got %+v, %v", got, err)
	}
}

func TestRecent(t *testing.T) {
	j, err := NewFileJournal(filepath.Join(t.TempDir(), "d.jsonl"))
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{"a", "b", "c"} {
		if err := j.Append(Delivery{Text: s}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := Recent(j, 2)
	if err != nil || len(got) != 2 || got[0].Text != "b" || got[1].Text != "c" {
		t.Fatalf("got %+v, %v", got, err)
	}
	if all, _ := Recent(j, 0); len(all) != 3 {
		t.Fatalf("n<=0 must return everything, got %d", len(all))
	}
}
