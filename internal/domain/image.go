package domain

import (
	"bytes"
	"io"
	"time"
)

// Clock returns the current time. Records use it to stamp updatedAt.
type Clock func() time.Time

// StagedFile is an uploaded file attached to a record but not yet written
// to storage.
type StagedFile struct {
	// Filename is the name supplied by the client.
	Filename string
	// Size is the client-declared size; storage recomputes it on commit.
	Size int64
	open func() (io.ReadCloser, error)
}

// NewStagedFile wraps a lazily opened upload, e.g. a multipart.FileHeader.
func NewStagedFile(filename string, size int64, open func() (io.ReadCloser, error)) *StagedFile {
	return &StagedFile{Filename: filename, Size: size, open: open}
}

// StagedBytes stages an in-memory file.
func StagedBytes(filename string, data []byte) *StagedFile {
	return NewStagedFile(filename, int64(len(data)), func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	})
}

// Open returns the file content.
func (f *StagedFile) Open() (io.ReadCloser, error) {
	return f.open()
}

// attachment holds the image columns shared by Categorie and Produit.
//
// Staging a file is an in-memory assignment; the storage layer commits it
// and writes back the generated name and size.
type attachment struct {
	file      *StagedFile
	name      *string
	size      *int64
	updatedAt *time.Time
	clock     Clock
}

// SetClock replaces the time source used by SetImageFile.
func (a *attachment) SetClock(clock Clock) {
	a.clock = clock
}

func (a *attachment) now() time.Time {
	if a.clock != nil {
		return a.clock()
	}
	return time.Now()
}

// SetImageFile stages f. A non-nil file stamps updatedAt so the record is
// seen as changed even when no other column moved.
func (a *attachment) SetImageFile(f *StagedFile) {
	a.file = f
	if f != nil {
		now := a.now()
		a.updatedAt = &now
	}
}

func (a *attachment) ImageFile() *StagedFile { return a.file }

func (a *attachment) SetImageName(name *string) { a.name = name }

func (a *attachment) ImageName() *string { return a.name }

func (a *attachment) SetImageSize(size *int64) { a.size = size }

func (a *attachment) ImageSize() *int64 { return a.size }

func (a *attachment) UpdatedAt() *time.Time { return a.updatedAt }

func (a *attachment) restore(name *string, size *int64, updatedAt *time.Time) {
	a.name = name
	a.size = size
	a.updatedAt = updatedAt
}

func (a *attachment) imageURL(prefix string) *string {
	if a.name == nil {
		return nil
	}
	url := prefix + *a.name
	return &url
}
