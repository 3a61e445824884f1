package watch

import (
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"
)

func TestDebouncer_CoalescesBurstsIntoOneCallback(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	var mu sync.Mutex
	var calls [][]string
	d.SetCallback(func(files []string) {
		mu.Lock()
		defer mu.Unlock()
		calls = append(calls, files)
	})

	d.Add("a.go")
	d.Add("b.go")
	d.Add("a.go")

	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("callback fired %d times, want 1", len(calls))
	}
	got := calls[0]
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a.go" || got[1] != "b.go" {
		t.Errorf("callback files = %v, want [a.go b.go]", got)
	}
}

func TestDebouncer_ResetsTimerOnNewChanges(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	defer d.Stop()

	fired := make(chan []string, 1)
	d.SetCallback(func(files []string) { fired <- files })

	d.Add("a.go")
	time.Sleep(25 * time.Millisecond)
	d.Add("b.go")

	select {
	case <-fired:
		t.Fatal("callback fired before the debounce window elapsed")
	case <-time.After(30 * time.Millisecond):
		// Still inside the reset window.
	}

	select {
	case files := <-fired:
		if len(files) != 2 {
			t.Errorf("callback files = %v, want 2 entries", files)
		}
	case <-time.After(200 * time.Millisecond):
		t.Fatal("callback never fired")
	}
}

func TestFileWatcher_ShouldIgnore(t *testing.T) {
	fw := &FileWatcher{ignored: []string{"mirror_gen.go", "*.tmp"}}

	cases := []struct {
		path string
		want bool
	}{
		{"mirrordata/mirror_gen.go", true},
		{"scratch.tmp", true},
		{".hidden.go", true},
		{"internal/app/model.go", false},
	}
	for _, tc := range cases {
		if got := fw.shouldIgnore(tc.path); got != tc.want {
			t.Errorf("shouldIgnore(%q) = %v, want %v", tc.path, got, tc.want)
		}
	}
}

func TestIsGoSource(t *testing.T) {
	if !isGoSource("model.go") {
		t.Error("isGoSource(model.go) = false")
	}
	if isGoSource("README.md") {
		t.Error("isGoSource(README.md) = true")
	}
}

func TestFileWatcher_FindDirectoriesSkipsVendorAndHidden(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"app", "app/sub", "vendor/dep", ".git/objects", "testdata/fixtures", "_scratch"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatalf("MkdirAll error = %v", err)
		}
	}

	fw := &FileWatcher{root: root}
	dirs, err := fw.findDirectories()
	if err != nil {
		t.Fatalf("findDirectories() error = %v", err)
	}

	got := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		rel, _ := filepath.Rel(root, d)
		got[rel] = true
	}

	for _, want := range []string{".", "app", filepath.Join("app", "sub")} {
		if !got[want] {
			t.Errorf("findDirectories() missing %q (got %v)", want, dirs)
		}
	}
	for _, skip := range []string{"vendor", ".git", "testdata", "_scratch"} {
		if got[skip] {
			t.Errorf("findDirectories() should skip %q", skip)
		}
	}
}

func TestFileWatcher_RegeneratesOnWrite(t *testing.T) {
	root := t.TempDir()

	fired := make(chan []string, 1)
	fw, err := NewFileWatcher(root, []string{"mirror_gen.go"}, 20*time.Millisecond, func(files []string) error {
		select {
		case fired <- files:
		default:
		}
		return nil
	})
	if err != nil {
		t.Fatalf("NewFileWatcher() error = %v", err)
	}
	if err := fw.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer fw.Stop()

	if err := os.WriteFile(filepath.Join(root, "model.go"), []byte("package app\n"), 0o644); err != nil {
		t.Fatalf("WriteFile error = %v", err)
	}

	select {
	case files := <-fired:
		if len(files) == 0 {
			t.Error("change callback received no files")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("change callback never fired")
	}
}
