// Package storage commits staged image files to a filesystem namespace per
// mapping and writes the generated name and size back onto the record.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"catalogue/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrStorage wraps every filesystem failure.
var ErrStorage = errors.New("image storage failed")

const sniffLen = 3072

// Uploadable is a record carrying a staged image.
type Uploadable interface {
	ImageMapping() string
	ImageFile() *domain.StagedFile
	SetImageFile(f *domain.StagedFile)
	ImageName() *string
	SetImageName(name *string)
	SetImageSize(size *int64)
}

// Namer picks the stored file name from the client name and the first
// bytes of the content.
type Namer func(original string, head []byte) string

// Stored describes a committed file.
type Stored struct {
	Mapping string
	Name    string
	Size    int64
}

// Uploader writes images below root/<mapping>/.
type Uploader struct {
	fs     afero.Fs
	root   string
	namer  Namer
	logger *zap.Logger
}

// NewUploader creates an Uploader over fs.
func NewUploader(fs afero.Fs, root string, logger *zap.Logger) *Uploader {
	return &Uploader{fs: fs, root: root, namer: SmartUniqueName, logger: logger}
}

// WithNamer returns a copy of u using namer.
func (u *Uploader) WithNamer(namer Namer) *Uploader {
	clone := *u
	clone.namer = namer
	return &clone
}

// Commit stores the staged file of rec, if any, and back-fills its name
// and size. It returns nil when nothing was staged.
func (u *Uploader) Commit(ctx context.Context, rec Uploadable) (*Stored, error) {
	staged := rec.ImageFile()
	if staged == nil {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	src, err := staged.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: open upload: %v", ErrStorage, err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read upload: %v", ErrStorage, err)
	}
	head = head[:n]

	mapping := rec.ImageMapping()
	dir := filepath.Join(u.root, mapping)
	if err := u.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrStorage, dir, err)
	}

	name := u.namer(staged.Filename, head)
	size, err := u.write(filepath.Join(dir, name), io.MultiReader(bytes.NewReader(head), src))
	if err != nil {
		return nil, err
	}

	rec.SetImageName(&name)
	rec.SetImageSize(&size)
	rec.SetImageFile(nil)

	u.logger.Debug("Image stored",
		zap.String("mapping", mapping),
		zap.String("name", name),
		zap.Int64("size", size),
	)

	return &Stored{Mapping: mapping, Name: name, Size: size}, nil
}

// write copies r to target through a temporary file so readers never see a
// partial image.
func (u *Uploader) write(target string, r io.Reader) (int64, error) {
	tmp := target + ".part"
	dst, err := u.fs.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("%w: create %s: %v", ErrStorage, tmp, err)
	}

	size, err := io.Copy(dst, r)
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = u.fs.Remove(tmp)
		return 0, fmt.Errorf("%w: write %s: %v", ErrStorage, tmp, err)
	}

	if err := u.fs.Rename(tmp, target); err != nil {
		_ = u.fs.Remove(tmp)
		return 0, fmt.Errorf("%w: rename %s: %v", ErrStorage, target, err)
	}
	return size, nil
}

// Rollback removes a committed file and clears the name and size it wrote
// onto rec.
func (u *Uploader) Rollback(rec Uploadable, stored *Stored) {
	if stored == nil {
		return
	}
	rec.SetImageName(nil)
	rec.SetImageSize(nil)
	if err := u.Remove(stored.Mapping, stored.Name); err != nil {
		u.logger.Error("Failed to roll back stored image",
			zap.String("mapping", stored.Mapping),
			zap.String("name", stored.Name),
			zap.Error(err),
		)
	}
}

// Remove deletes a stored file. A missing file is not an error.
func (u *Uploader) Remove(mapping, name string) error {
	target := filepath.Join(u.root, mapping, filepath.Base(name))
	if err := u.fs.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove %s: %v", ErrStorage, target, err)
	}
	return nil
}

// Exists reports whether mapping/name is stored.
func (u *Uploader) Exists(mapping, name string) (bool, error) {
	return afero.Exists(u.fs, filepath.Join(u.root, mapping, name))
}

// FileSystem exposes mapping for static serving.
func (u *Uploader) FileSystem(mapping string) http.FileSystem {
	return afero.NewHttpFs(u.fs).Dir(path.Join(u.root, mapping))
}

// SmartUniqueName builds "<slug>-<unique id><ext>". The extension is
// guessed from the content and falls back to the client extension.
func SmartUniqueName(original string, head []byte) string {
	originalExt := filepath.Ext(original)
	base := slug.Make(strings.TrimSuffix(filepath.Base(original), originalExt))
	if base == "" {
		base = "image"
	}

	ext := guessExtension(head)
	if ext == "" {
		ext = strings.ToLower(originalExt)
	}

	id := strings.ReplaceAll(uuid.NewString(), "-", "")[:13]
	return base + "-" + id + ext
}

func guessExtension(head []byte) string {
	if len(head) == 0 {
		return ""
	}
	mtype := mimetype.Detect(head)
	if mtype.Is("application/octet-stream") || mtype.Is("text/plain") {
		return ""
	}
	return mtype.Extension()
}
