package upload

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"recording.wav", "recording.wav"},
		{"My cool movie.mov", "My_cool_movie.mov"},
		{"../../../etc/passwd", "etc_passwd"},
		{`..\..\windows\system32.wav`, "windows_system32.wav"},
		{"i contain cool ümläuts.txt", "i_contain_cool_umlauts.txt"},
		{"ayat-ü.wav", "ayat-u.wav"},
		{"...", ""},
		{"", ""},
		{"CON.wav", "_CON.wav"},
		{"__hidden__.wav", "hidden__.wav"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStoreSaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "audio")
	s, err := NewStore(dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	f, err := s.Save(strings.NewReader("RIFF...."), "../../evil.wav")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Dir(f.Path) != dir {
		t.Errorf("file escaped the upload dir: %s", f.Path)
	}
	if !strings.HasSuffix(f.Path, "_evil.wav") {
		t.Errorf("unexpected file name %s", f.Path)
	}
	if f.Size != 8 {
		t.Errorf("Size = %d, want 8", f.Size)
	}

	data, err := os.ReadFile(f.Path)
	if err != nil || string(data) != "RIFF...." {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}

	if err := f.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(f.Path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Remove")
	}
	if err := f.Remove(); err != nil {
		t.Errorf("second Remove should be a no-op, got %v", err)
	}
}

func TestStoreUniqueNames(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	a, err := s.Save(strings.NewReader("a"), "same.wav")
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.Save(strings.NewReader("b"), "same.wav")
	if err != nil {
		t.Fatal(err)
	}
	if a.Path == b.Path {
		t.Fatal("expected distinct paths for identical filenames")
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestStoreSaveFailureLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save(failingReader{}, "x.wav"); err == nil {
		t.Fatal("expected error")
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected empty dir, found %d entries", len(entries))
	}
}
