// Package models defines the domain types for Ehwaz.
package models

import (
	"path/filepath"
	"strings"
)

// NoteRecord is a single note destined for the RAW bundle. Body holds the
// rendered link markup; the writer composes the full Markdown unit around it.
type NoteRecord struct {
	ID    string
	Title string
	Body  string
}

// ResourceRecord is a Joplin-managed attachment destined for the RAW bundle.
// Created only in resource mode.
type ResourceRecord struct {
	ID       string
	FileName string // original attachment file name, extension included
	Ext      string // extension with leading dot, may be empty
	Mime     string // inferred from Ext, may be empty
	Size     int64
}

// InputFile is a regular file found directly inside the files directory.
type InputFile struct {
	Path string // absolute path
	Name string // base name with extension
	Base string // base name without extension
	Ext  string // extension with leading dot, may be empty
	Size int64
}

// NewInputFile builds an InputFile from an absolute path and size.
func NewInputFile(path string, size int64) InputFile {
	name := filepath.Base(path)
	ext := filepath.Ext(name)
	return InputFile{
		Path: path,
		Name: name,
		Base: strings.TrimSuffix(name, ext),
		Ext:  ext,
		Size: size,
	}
}
