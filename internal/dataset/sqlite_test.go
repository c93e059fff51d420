package dataset_test

import (
	"path/filepath"
	"testing"

	"github.com/convlift/convlift/internal/dataset"
)

func TestSQLite_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.db")

	obs := []dataset.Observation{
		{UserID: "u1", Group: "A", Converted: true, Revenue: 120.5, Segments: map[string]string{"device": "mobile", "user_type": "new"}},
		{UserID: "u2", Group: "A", Converted: false},
		{UserID: "u3", Group: "B", Converted: true, Revenue: 80},
	}

	if err := dataset.WriteSQLite(path, obs); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	got, err := dataset.LoadSQLite(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(got) != len(obs) {
		t.Fatalf("expected %d observations, got %d", len(obs), len(got))
	}

	first := got[0]
	if first.UserID != "u1" || first.Group != "A" || !first.Converted || first.Revenue != 120.5 {
		t.Errorf("first row did not survive the round trip: %+v", first)
	}
	if first.Segments["device"] != "mobile" || first.Segments["user_type"] != "new" {
		t.Errorf("segments did not survive the round trip: %v", first.Segments)
	}
	if got[1].Segments != nil {
		t.Errorf("row without segments should load with nil map, got %v", got[1].Segments)
	}
}

func TestSQLite_AppendsAcrossWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.db")

	if err := dataset.WriteSQLite(path, []dataset.Observation{{Group: "A", Converted: true}}); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}
	if err := dataset.WriteSQLite(path, []dataset.Observation{{Group: "B", Converted: false}}); err != nil {
		t.Fatalf("unexpected write error: %v", err)
	}

	got, err := dataset.LoadSQLite(path)
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 observations after two writes, got %d", len(got))
	}
	if got[0].Group != "A" || got[1].Group != "B" {
		t.Errorf("rows out of insertion order: %+v", got)
	}
}

func TestLoadSQLite_MissingFileStillOpens(t *testing.T) {
	// SQLite creates the file on open; a fresh path is an empty dataset,
	// not an error.
	path := filepath.Join(t.TempDir(), "fresh.db")

	got, err := dataset.LoadSQLite(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty dataset, got %d rows", len(got))
	}
}
