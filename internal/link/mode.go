// Package link decides where an attachment ends up and how its note body
// refers to it.
package link

import "fmt"

// Mode is the link policy for a run: attachments either become
// Joplin-managed resources or stay external files referenced by path.
type Mode int

const (
	// ModeResource copies file bytes into the bundle's resource storage and
	// links with Joplin's native ":/id" syntax.
	ModeResource Mode = iota

	// ModeFile moves files into the primary attach directory and links with
	// a file:// URI.
	ModeFile
)

// ParseMode converts the CLI/config string form of a link mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "resource":
		return ModeResource, nil
	case "file":
		return ModeFile, nil
	}
	return 0, fmt.Errorf("link: unknown mode %q (want \"resource\" or \"file\")", s)
}

func (m Mode) String() string {
	switch m {
	case ModeResource:
		return "resource"
	case ModeFile:
		return "file"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}
