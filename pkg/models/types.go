package models

import (
	"io/fs"
	"time"
)

// Entry is one row of a directory listing.
type Entry struct {
	Name     string
	Path     string
	IsDir    bool
	IsParent bool // the ".." entry
	Size     int64
	Mode     fs.FileMode
	Modified time.Time
}

// FieldDump is the serializable form of one metadata field.
type FieldDump struct {
	Name  string `yaml:"name" json:"name"`
	Value string `yaml:"value" json:"value"`
}

// CategoryDump is the serializable form of one metadata category.
type CategoryDump struct {
	Name   string      `yaml:"name" json:"name"`
	Fields []FieldDump `yaml:"fields" json:"fields"`
}

// FileDump is the serializable form of a file's metadata.
type FileDump struct {
	Path       string         `yaml:"path" json:"path"`
	Format     string         `yaml:"format" json:"format"`
	Categories []CategoryDump `yaml:"categories" json:"categories"`
}
