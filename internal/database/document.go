package database

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/jinzhu/gorm"
)

// Document is a named blob stored in the documents table
type Document struct {
	Key       string `gorm:"primary_key;column:doc_key"`
	Body      string `gorm:"type:text"`
	UpdatedAt time.Time
}

// TableName sets the table name for Document
func (Document) TableName() string {
	return "documents"
}

// GormDocument reads and writes a single document row
type GormDocument struct {
	db  *gorm.DB
	key string
}

// NewGormDocument binds a document key to an open database
func NewGormDocument(db *gorm.DB, key string) *GormDocument {
	return &GormDocument{db: db, key: key}
}

// Read returns the stored body. A missing row reports fs.ErrNotExist.
func (d *GormDocument) Read() ([]byte, error) {
	var doc Document
	err := d.db.Where("doc_key = ?", d.key).First(&doc).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil, fmt.Errorf("document %q: %w", d.key, fs.ErrNotExist)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %q: %w", d.key, err)
	}
	return []byte(doc.Body), nil
}

// Write replaces the stored body
func (d *GormDocument) Write(data []byte) error {
	doc := Document{Key: d.key, Body: string(data), UpdatedAt: time.Now()}
	if err := d.db.Save(&doc).Error; err != nil {
		return fmt.Errorf("failed to write document %q: %w", d.key, err)
	}
	return nil
}

// FileDocument stores the document as a file on disk
type FileDocument struct {
	path string
}

// NewFileDocument creates a file-backed document at path
func NewFileDocument(path string) *FileDocument {
	return &FileDocument{path: path}
}

// Path returns the backing file path
func (d *FileDocument) Path() string {
	return d.path
}

// Read returns the file contents
func (d *FileDocument) Read() ([]byte, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", d.path, err)
	}
	return data, nil
}

// Write replaces the file contents through a temporary file and rename
func (d *FileDocument) Write(data []byte) error {
	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), d.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", d.path, err)
	}
	return nil
}
