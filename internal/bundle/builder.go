// Package bundle orchestrates a run: list input files, allocate identifiers,
// resolve links, and persist note and resource records into the RAW bundle.
package bundle

import (
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/starford/ehwaz/internal/ident"
	"github.com/starford/ehwaz/internal/link"
	"github.com/starford/ehwaz/internal/models"
	"github.com/starford/ehwaz/internal/raw"
)

// Import describes one successfully imported file.
type Import struct {
	File       string
	NoteID     string
	ResourceID string // empty in file mode
}

// Failure describes one file whose processing failed and was skipped.
type Failure struct {
	File string
	Err  error
}

// Report accumulates the outcome of a run (or a whole watch session).
type Report struct {
	Imported []Import
	Failed   []Failure
}

// Err returns the aggregated per-file failures, or nil when all files
// imported cleanly.
func (r *Report) Err() error {
	var merr *multierror.Error
	for _, f := range r.Failed {
		merr = multierror.Append(merr, fmt.Errorf("%s: %w", f.File, f.Err))
	}
	return merr.ErrorOrNil()
}

// Builder turns the files directory into RAW records. Not safe for
// concurrent use; the run model is sequential.
type Builder struct {
	filesDir string
	alloc    *ident.Allocator
	resolver *link.Resolver
	bundle   *raw.Bundle
	logger   *slog.Logger

	seen   map[string]struct{} // file names already handled this session
	report Report
}

// New creates a Builder over an already-created bundle.
func New(filesDir string, alloc *ident.Allocator, resolver *link.Resolver, b *raw.Bundle, logger *slog.Logger) *Builder {
	return &Builder{
		filesDir: filesDir,
		alloc:    alloc,
		resolver: resolver,
		bundle:   b,
		logger:   logger,
		seen:     map[string]struct{}{},
	}
}

// Report returns the accumulated session report.
func (b *Builder) Report() *Report {
	return &b.report
}

// Sweep lists the files directory and imports every eligible file not yet
// handled this session, in name order. It returns the number of files
// imported. Per-file failures are recorded and skipped; only a systemic
// failure (listing, identifier exhaustion) aborts.
func (b *Builder) Sweep() (int, error) {
	files, err := b.listFiles()
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, f := range files {
		if _, done := b.seen[f.Name]; done {
			continue
		}
		b.seen[f.Name] = struct{}{}

		imp, err := b.importFile(f)
		if err != nil {
			if errors.Is(err, ident.ErrExhausted) {
				return imported, err
			}
			b.logger.Warn("import failed, file skipped",
				slog.String("file", f.Name),
				slog.String("error", err.Error()))
			b.report.Failed = append(b.report.Failed, Failure{File: f.Name, Err: err})
			continue
		}
		b.logger.Info("imported",
			slog.String("file", f.Name),
			slog.String("note_id", imp.NoteID),
			slog.String("mode", b.resolver.Mode().String()))
		b.report.Imported = append(b.report.Imported, imp)
		imported++
	}
	return imported, nil
}

// importFile produces the note (and, in resource mode, resource) records for
// one file. Storage actions run before any record is persisted, so a failed
// move or copy leaves no note behind.
func (b *Builder) importFile(f models.InputFile) (Import, error) {
	noteID, err := b.alloc.Allocate()
	if err != nil {
		return Import{}, err
	}

	imp := Import{File: f.Name, NoteID: noteID}

	var markup string
	switch b.resolver.Mode() {
	case link.ModeResource:
		resID, err := b.alloc.Allocate()
		if err != nil {
			return Import{}, err
		}
		res, err := b.resolver.Resolve(f, resID)
		if err != nil {
			return Import{}, err
		}
		if err := b.bundle.WriteResource(models.ResourceRecord{
			ID:       resID,
			FileName: f.Name,
			Ext:      f.Ext,
			Mime:     mimeType(f.Ext),
			Size:     f.Size,
		}, f.Path, res.ResourceName); err != nil {
			return Import{}, err
		}
		imp.ResourceID = resID
		markup = res.Markup

	case link.ModeFile:
		res, err := b.resolver.Resolve(f, "")
		if err != nil {
			return Import{}, err
		}
		if err := link.Move(f.Path, res.DestPath); err != nil {
			return Import{}, err
		}
		markup = res.Markup
	}

	if err := b.bundle.WriteNote(models.NoteRecord{
		ID:    noteID,
		Title: f.Base,
		Body:  markup,
	}); err != nil {
		return Import{}, err
	}
	return imp, nil
}

// listFiles returns the immediate regular files of the files directory in
// ascending name order. Sub-directories, including the bundle itself, are
// ignored.
func (b *Builder) listFiles() ([]models.InputFile, error) {
	entries, err := os.ReadDir(b.filesDir)
	if err != nil {
		return nil, fmt.Errorf("bundle: list files directory: %w", err)
	}

	var out []models.InputFile
	for _, e := range entries {
		if e.IsDir() || !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, models.NewInputFile(filepath.Join(b.filesDir, e.Name()), info.Size()))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// mimeType infers a MIME type from an extension, empty when unknown.
// Parameters (charset) are stripped to match what Joplin stores.
func mimeType(ext string) string {
	t := mime.TypeByExtension(strings.ToLower(ext))
	if i := strings.Index(t, ";"); i >= 0 {
		t = t[:i]
	}
	return strings.TrimSpace(t)
}
