package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	return Open(filepath.Join(t.TempDir(), "state.json"))
}

func TestReadMissingKey(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	v, ok, err := s.ReadString(KeySkipThisVersion)
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if ok || v != "" {
		t.Fatalf("expected absent key, got %q ok=%v", v, ok)
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.WriteString(KeySkipThisVersion, "2.0"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	v, ok, err := s.ReadString(KeySkipThisVersion)
	if err != nil || !ok {
		t.Fatalf("ReadString: %v ok=%v", err, ok)
	}
	if v != "2.0" {
		t.Fatalf("value: got %q want %q", v, "2.0")
	}
}

func TestTimeRoundTrip(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	if err := s.WriteTime(KeyLastCheckTime, now); err != nil {
		t.Fatalf("WriteTime: %v", err)
	}
	got, ok, err := s.ReadTime(KeyLastCheckTime)
	if err != nil || !ok {
		t.Fatalf("ReadTime: %v ok=%v", err, ok)
	}
	if !got.Equal(now) {
		t.Fatalf("time: got %v want %v", got, now)
	}
}

func TestWriteCreatesParentDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := Open(filepath.Join(dir, "nested", "deeper", "state.json"))
	if err := s.WriteString("k", "v"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "nested", "deeper", "state.json")); err != nil {
		t.Fatalf("state file missing: %v", err)
	}
}

func TestDelete(t *testing.T) {
	t.Parallel()

	s := testStore(t)
	if err := s.WriteString("k", "v"); err != nil {
		t.Fatalf("WriteString: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.ReadString("k"); ok {
		t.Fatalf("key survived delete")
	}
	// Deleting an absent key is a no-op.
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}
}

func TestCorruptFileSurfacesError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := Open(path)
	if _, _, err := s.ReadString("k"); err == nil {
		t.Fatalf("expected parse error for corrupt settings file")
	}
}
