package link

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/starford/ehwaz/internal/attach"
	"github.com/starford/ehwaz/internal/models"
)

// Extensions Joplin renders inline; these get image markup.
var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true,
	".gif": true, ".webp": true,
}

// Resolution is the resolver's verdict for one file: the markup to embed in
// the note body plus the storage destination for the chosen mode.
type Resolution struct {
	Markup       string
	ResourceName string // resource mode: file name under the bundle's resources dir
	DestPath     string // file mode: absolute destination in the primary attach dir
}

// Resolver dispatches on the run's link mode. A new mode is a new case in
// Resolve, nothing else.
type Resolver struct {
	mode     Mode
	registry *attach.Registry
}

// NewResolver builds a Resolver. File mode requires a loaded registry.
func NewResolver(mode Mode, registry *attach.Registry) (*Resolver, error) {
	if mode == ModeFile {
		if registry == nil || len(registry.Entries()) == 0 {
			return nil, fmt.Errorf("link: %w for file mode", attach.ErrMissingConfig)
		}
	}
	return &Resolver{mode: mode, registry: registry}, nil
}

// Mode returns the resolver's link mode.
func (r *Resolver) Mode() Mode {
	return r.mode
}

// Resolve decides the destination and markup for one input file. In resource
// mode resourceID must be the identifier allocated for the companion
// ResourceRecord; in file mode it is ignored.
func (r *Resolver) Resolve(file models.InputFile, resourceID string) (Resolution, error) {
	switch r.mode {
	case ModeResource:
		return Resolution{
			Markup:       resourceMarkup(file, resourceID),
			ResourceName: resourceID + file.Ext,
		}, nil
	case ModeFile:
		dest := filepath.Join(r.registry.Primary().Dir, file.Name)
		abs, err := filepath.Abs(dest)
		if err != nil {
			return Resolution{}, fmt.Errorf("link: resolve destination: %w", err)
		}
		return Resolution{
			Markup:   fmt.Sprintf("[%s](%s)", file.Name, fileURI(abs)),
			DestPath: abs,
		}, nil
	}
	return Resolution{}, fmt.Errorf("link: unknown mode %v", r.mode)
}

// resourceMarkup renders Joplin's native resource link, with image markup
// for types Joplin displays inline.
func resourceMarkup(file models.InputFile, resourceID string) string {
	if imageExtensions[strings.ToLower(file.Ext)] {
		return fmt.Sprintf("![%s](:/%s)", file.Name, resourceID)
	}
	return fmt.Sprintf("[%s](:/%s)", file.Name, resourceID)
}

// fileURI renders a file:// URI for an absolute path, escaping each
// segment (spaces, non-ASCII).
func fileURI(abs string) string {
	segs := strings.Split(filepath.ToSlash(abs), "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "file://" + strings.Join(segs, "/")
}
