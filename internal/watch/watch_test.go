package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/ehwaz/internal/bundle"
	"github.com/starford/ehwaz/internal/ident"
	"github.com/starford/ehwaz/internal/link"
	"github.com/starford/ehwaz/internal/raw"
	"github.com/starford/ehwaz/internal/testutil"
)

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatchImportsLateFile(t *testing.T) {
	filesDir := testutil.FilesDir(t, nil)
	syncDir := testutil.SyncDir(t)

	existing, err := ident.Scan(syncDir)
	if err != nil {
		t.Fatal(err)
	}
	resolver, err := link.NewResolver(link.ModeResource, nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := raw.Create(filesDir)
	if err != nil {
		t.Fatal(err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	builder := bundle.New(filesDir, ident.New(existing), resolver, out, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- Run(ctx, filesDir, builder, logger) }()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(filesDir, "late.txt"), []byte("arrived late"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Poll the bundle on disk; the builder itself is owned by the watch
	// goroutine until Run returns.
	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		matches, _ := filepath.Glob(filepath.Join(out.Root(), "*.md"))
		return len(matches) >= 1
	}, "late file not imported by watcher")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("watcher did not stop after cancel")
	}

	imp := builder.Report().Imported
	if len(imp) != 1 || imp[0].File != "late.txt" {
		t.Errorf("imported = %+v, want exactly late.txt", imp)
	}
}
