package raw

import (
	"fmt"
	"strings"

	"github.com/starford/ehwaz/internal/link"
	"github.com/starford/ehwaz/internal/models"
)

// WriteNote persists a note unit as <id>.md. The note's dependent storage
// action must already have succeeded; a note never references a file that
// failed to move or copy.
func (b *Bundle) WriteNote(n models.NoteRecord) error {
	return b.write(n.ID+".md", []byte(noteMarkdown(n, b.now)))
}

// WriteResource copies the attachment bytes into resource storage under
// destName (the allocated identifier, extension preserved) and persists the
// metadata unit.
func (b *Bundle) WriteResource(res models.ResourceRecord, srcPath, destName string) error {
	dst := b.ResourcePath(destName)
	if err := link.CopyBytes(srcPath, dst); err != nil {
		return fmt.Errorf("raw: store resource %s: %w", res.FileName, err)
	}
	return b.write(res.ID+".md", []byte(resourceMarkdown(res, b.now)))
}

// noteMarkdown renders the RAW note unit: title, body, metadata block.
// Field set and order follow Joplin's own serializer.
func noteMarkdown(n models.NoteRecord, now string) string {
	var sb strings.Builder
	sb.WriteString(n.Title + "\n\n")
	sb.WriteString(n.Body + "\n\n")

	sb.WriteString("id: " + n.ID + "\n")
	sb.WriteString("parent_id: \n")
	sb.WriteString("created_time: " + now + "\n")
	sb.WriteString("updated_time: " + now + "\n")
	sb.WriteString("is_conflict: 0\n")
	sb.WriteString("latitude: 0.00000000\n")
	sb.WriteString("longitude: 0.00000000\n")
	sb.WriteString("altitude: 0.0000\n")
	sb.WriteString("author: \n")
	sb.WriteString("source_url: \n")
	sb.WriteString("is_todo: 0\n")
	sb.WriteString("todo_due: 0\n")
	sb.WriteString("todo_completed: 0\n")
	sb.WriteString("source: joplin-desktop\n")
	sb.WriteString("source_application: net.cozic.joplin-desktop\n")
	sb.WriteString("application_data:\n")
	sb.WriteString("order: 0\n")
	sb.WriteString("user_created_time: " + now + "\n")
	sb.WriteString("user_updated_time: " + now + "\n")
	sb.WriteString("encryption_cipher_text: \n")
	sb.WriteString("encryption_applied: 0\n")
	sb.WriteString("markup_language: 1\n")
	sb.WriteString("type_: 1")
	return sb.String()
}

// resourceMarkdown renders the RAW resource metadata unit (type_ 4).
func resourceMarkdown(res models.ResourceRecord, now string) string {
	var sb strings.Builder
	sb.WriteString(res.FileName + "\n\n")

	sb.WriteString("id: " + res.ID + "\n")
	sb.WriteString("mime: " + res.Mime + "\n")
	sb.WriteString("filename: " + res.FileName + "\n")
	sb.WriteString("created_time: " + now + "\n")
	sb.WriteString("updated_time: " + now + "\n")
	sb.WriteString("user_created_time: " + now + "\n")
	sb.WriteString("user_updated_time: " + now + "\n")
	sb.WriteString("file_extension: \n")
	sb.WriteString("encryption_cipher_text: \n")
	sb.WriteString("encryption_applied: 0\n")
	sb.WriteString("encryption_blob_encrypted: 0\n")
	sb.WriteString(fmt.Sprintf("size: %d\n", res.Size))
	sb.WriteString("type_: 4")
	return sb.String()
}
