package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Link modes.
const (
	LinkModeResource = "resource"
	LinkModeFile     = "file"
)

// Config represents the tool configuration. The sync and files paths come
// from the CLI as already-resolved absolute values; everything may also be
// set from an optional YAML config file, with CLI values taking precedence.
type Config struct {
	App   ApplicationConfig `yaml:"app"`
	Sync  SyncConfig        `yaml:"sync"`
	Files FilesConfig       `yaml:"files"`
	Link  LinkConfig        `yaml:"link"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Sync.Validate(); err != nil {
		return err
	}
	if err := c.Files.Validate(); err != nil {
		return err
	}
	return c.Link.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	Watch    bool       `yaml:"watch"`
}

// SyncConfig holds the path to the Joplin sync target directory, used only
// to pre-scan identifiers already in use.
type SyncConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the sync configuration.
func (c *SyncConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// FilesConfig holds the path to the flat attachment files directory.
type FilesConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the files configuration.
func (c *FilesConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// LinkConfig holds the link policy.
//
// Mode controls what happens to each attachment:
//   - "resource" (default): bytes are copied into the bundle as a managed
//     Joplin resource.
//   - "file": the file is moved into the primary attach directory and linked
//     with a file:// URI; AttachConfig must then point at the attach
//     directory table.
type LinkConfig struct {
	Mode         string `yaml:"mode"`
	AttachConfig string `yaml:"attach_config"`
}

// Validate validates the link configuration.
func (c *LinkConfig) Validate() error {
	// Normalise empty mode to the default.
	if c.Mode == "" {
		c.Mode = LinkModeResource
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(LinkModeResource, LinkModeFile)),
	); err != nil {
		return err
	}
	if c.Mode == LinkModeFile && c.AttachConfig == "" {
		return fmt.Errorf("link: mode is %q but attach_config is empty", LinkModeFile)
	}
	return nil
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Link: LinkConfig{
			Mode: LinkModeResource,
		},
	}
}
