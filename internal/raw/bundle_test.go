package raw

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/starford/ehwaz/internal/models"
)

func TestCreate(t *testing.T) {
	filesDir := t.TempDir()
	b, err := Create(filesDir)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.Root() != filepath.Join(filesDir, DirName) {
		t.Errorf("root = %q", b.Root())
	}
	info, err := os.Stat(filepath.Join(b.Root(), "resources"))
	if err != nil || !info.IsDir() {
		t.Errorf("resources dir missing: %v", err)
	}
}

func TestCreateRefusesExistingBundle(t *testing.T) {
	filesDir := t.TempDir()
	if _, err := Create(filesDir); err != nil {
		t.Fatal(err)
	}
	if _, err := Create(filesDir); err == nil {
		t.Error("expected error for pre-existing bundle")
	}
}

func TestTimestampFormat(t *testing.T) {
	ts := Timestamp(time.Date(2020, 3, 7, 9, 5, 2, 123_000_000, time.UTC))
	if ts != "2020-03-07T09:05:02.123Z" {
		t.Errorf("ts = %q", ts)
	}
	// The run timestamp must match Joplin's stored shape.
	re := regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}\.\d{3}Z$`)
	if !re.MatchString(Timestamp(time.Now())) {
		t.Errorf("now = %q does not match Joplin timestamp shape", Timestamp(time.Now()))
	}
}

func TestWriteNote(t *testing.T) {
	b, err := Create(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	id := "0123456789abcdef0123456789abcdef"
	note := models.NoteRecord{
		ID:    id,
		Title: "vacation",
		Body:  "![vacation.jpg](:/ffffffffffffffffffffffffffffffff)",
	}
	if err := b.WriteNote(note); err != nil {
		t.Fatalf("WriteNote: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(b.Root(), id+".md"))
	if err != nil {
		t.Fatalf("read note unit: %v", err)
	}
	s := string(data)

	if !strings.HasPrefix(s, "vacation\n\n![vacation.jpg](:/") {
		t.Errorf("note does not start with title and link:\n%s", s)
	}
	for _, want := range []string{
		"id: " + id + "\n",
		"parent_id: \n",
		"markup_language: 1\n",
		"source: joplin-desktop\n",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("note missing %q", want)
		}
	}
	if !strings.HasSuffix(s, "type_: 1") {
		t.Error("note must end with type_: 1")
	}
}

func TestWriteResource(t *testing.T) {
	filesDir := t.TempDir()
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a}
	src := filepath.Join(filesDir, "pic.png")
	if err := os.WriteFile(src, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	b, err := Create(filesDir)
	if err != nil {
		t.Fatal(err)
	}
	id := "fedcba9876543210fedcba9876543210"
	res := models.ResourceRecord{
		ID:       id,
		FileName: "pic.png",
		Ext:      ".png",
		Mime:     "image/png",
		Size:     int64(len(payload)),
	}
	if err := b.WriteResource(res, src, id+".png"); err != nil {
		t.Fatalf("WriteResource: %v", err)
	}

	// Payload copied under the identifier, extension preserved.
	got, err := os.ReadFile(b.ResourcePath(id + ".png"))
	if err != nil {
		t.Fatalf("read payload: %v", err)
	}
	if string(got) != string(payload) {
		t.Error("payload bytes differ")
	}

	data, err := os.ReadFile(filepath.Join(b.Root(), id+".md"))
	if err != nil {
		t.Fatalf("read metadata unit: %v", err)
	}
	s := string(data)
	for _, want := range []string{
		"pic.png\n\n",
		"id: " + id + "\n",
		"mime: image/png\n",
		"filename: pic.png\n",
		"size: 6\n",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("resource unit missing %q", want)
		}
	}
	if !strings.HasSuffix(s, "type_: 4") {
		t.Error("resource must end with type_: 4")
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	b, err := Create(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := b.WriteNote(models.NoteRecord{ID: "a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1", Title: "t", Body: "b"}); err != nil {
		t.Fatal(err)
	}
	matches, _ := filepath.Glob(filepath.Join(b.Root(), ".ehwaz-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}
