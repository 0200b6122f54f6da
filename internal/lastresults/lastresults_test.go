package lastresults

import (
	"errors"
	"os"
	"testing"

	"github.com/portfolio-labs/ptrack/internal/model"
)

func TestWriteAndReadRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	results := []model.Result{
		model.Project{ID: "0190-a", Key: "billing-revamp", Name: "Billing Revamp", StartRaw: "Jan-25", EndRaw: "2025-06-30", Status: model.StatusInProgress},
		model.Member{Username: "ada", FullName: "Ada Lovelace", Role: model.RoleDeveloper},
		model.Initiative{Key: "mobile-first", Name: "Mobile first", ObjectiveKey: "digital"},
	}

	lr, err := NewFromResults(SourceProjects, "billing", results)
	if err != nil {
		t.Fatalf("NewFromResults failed: %v", err)
	}
	if err := Write(tmpDir, lr); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	readBack, err := Read(tmpDir)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if readBack.Source != SourceProjects || readBack.Query != "billing" {
		t.Errorf("unexpected header: %+v", readBack)
	}
	if len(readBack.Results) != len(results) {
		t.Fatalf("Results count mismatch: got %d, want %d", len(readBack.Results), len(results))
	}

	got, err := readBack.GetByNumbers([]int{3, 1})
	if err != nil {
		t.Fatalf("GetByNumbers failed: %v", err)
	}
	if in, ok := got[0].(model.Initiative); !ok || in.Key != "mobile-first" {
		t.Fatalf("expected initiative result, got %#v", got[0])
	}
	p, ok := got[1].(model.Project)
	if !ok {
		t.Fatalf("expected project result, got %T", got[1])
	}
	if p.StartRaw != "Jan-25" || p.Status != model.StatusInProgress {
		t.Errorf("project fields lost in round trip: %+v", p)
	}

	m, err := readBack.Results[1].Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if m.(model.Member).Role != model.RoleDeveloper {
		t.Errorf("member role lost: %+v", m)
	}
}

func TestGetByNumbersOutOfRange(t *testing.T) {
	lr, err := NewFromResults(SourceProjects, "", []model.Result{model.Project{Key: "a", Name: "A"}})
	if err != nil {
		t.Fatal(err)
	}

	for _, n := range []int{0, 2} {
		if _, err := lr.GetByNumbers([]int{n}); !errors.Is(err, ErrNumberOutOfRange) {
			t.Errorf("GetByNumbers(%d) error = %v, want ErrNumberOutOfRange", n, err)
		}
	}
}

func TestDecodeProjects(t *testing.T) {
	lr, err := NewFromResults(SourceProjects, "", []model.Result{
		model.Project{Key: "a", Name: "A"},
		model.Project{Key: "b", Name: "B"},
	})
	if err != nil {
		t.Fatal(err)
	}

	projects, err := lr.DecodeProjects()
	if err != nil {
		t.Fatalf("DecodeProjects failed: %v", err)
	}
	if len(projects) != 2 || projects[1].Key != "b" {
		t.Fatalf("unexpected projects: %+v", projects)
	}

	mixed, _ := NewFromResults(SourceMembers, "", []model.Result{model.Member{Username: "ada"}})
	if _, err := mixed.DecodeProjects(); err == nil {
		t.Fatal("expected error decoding members as projects")
	}
}

func TestReadMissing(t *testing.T) {
	if _, err := Read(t.TempDir()); !errors.Is(err, ErrNoLastResults) {
		t.Fatalf("expected ErrNoLastResults, got %v", err)
	}
}

func TestReadCorrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(dir); err == nil {
		t.Fatal("expected parse error")
	}
}
