package link

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/ehwaz/internal/attach"
	"github.com/starford/ehwaz/internal/models"
)

func TestParseMode(t *testing.T) {
	if m, err := ParseMode("resource"); err != nil || m != ModeResource {
		t.Errorf("ParseMode(resource) = %v, %v", m, err)
	}
	if m, err := ParseMode("file"); err != nil || m != ModeFile {
		t.Errorf("ParseMode(file) = %v, %v", m, err)
	}
	if _, err := ParseMode("symlink"); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestResolveResourceMarkup(t *testing.T) {
	r, err := NewResolver(ModeResource, nil)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}
	id := "0123456789abcdef0123456789abcdef"

	cases := []struct {
		name string
		want string
	}{
		{"vacation.jpg", "![vacation.jpg](:/" + id + ")"},
		{"diagram.PNG", "![diagram.PNG](:/" + id + ")"},
		{"report.pdf", "[report.pdf](:/" + id + ")"},
		{"noext", "[noext](:/" + id + ")"},
	}
	for _, c := range cases {
		res, err := r.Resolve(models.NewInputFile("/in/"+c.name, 1), id)
		if err != nil {
			t.Fatalf("%s: Resolve: %v", c.name, err)
		}
		if res.Markup != c.want {
			t.Errorf("%s: markup = %q, want %q", c.name, res.Markup, c.want)
		}
	}
}

func TestResolveResourceName(t *testing.T) {
	r, _ := NewResolver(ModeResource, nil)
	id := "aaaabbbbccccddddaaaabbbbccccdddd"
	res, err := r.Resolve(models.NewInputFile("/in/photo.jpeg", 1), id)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.ResourceName != id+".jpeg" {
		t.Errorf("resource name = %q, want id with extension preserved", res.ResourceName)
	}
}

func TestResolveFileURI(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "attach.conf")
	if err := os.WriteFile(conf, []byte("home,/sync/attach"), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, err := attach.Load(conf)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewResolver(ModeFile, reg)
	if err != nil {
		t.Fatalf("NewResolver: %v", err)
	}

	res, err := r.Resolve(models.NewInputFile("/in/c.txt", 1), "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.DestPath != "/sync/attach/c.txt" {
		t.Errorf("dest = %q", res.DestPath)
	}
	if !strings.Contains(res.Markup, "file:///sync/attach/c.txt") {
		t.Errorf("markup = %q, want file:///sync/attach/c.txt link", res.Markup)
	}
}

func TestResolveFileURIEscaping(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "attach.conf")
	if err := os.WriteFile(conf, []byte("home,/sync/my attach"), 0o644); err != nil {
		t.Fatal(err)
	}
	reg, _ := attach.Load(conf)
	r, _ := NewResolver(ModeFile, reg)

	res, err := r.Resolve(models.NewInputFile("/in/café picture.png", 1), "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !strings.Contains(res.Markup, "file:///sync/my%20attach/caf%C3%A9%20picture.png") {
		t.Errorf("markup = %q, want escaped URI", res.Markup)
	}
}

func TestNewResolverFileModeNeedsRegistry(t *testing.T) {
	if _, err := NewResolver(ModeFile, nil); !errors.Is(err, attach.ErrMissingConfig) {
		t.Errorf("err = %v, want ErrMissingConfig", err)
	}
}
