package imagestore

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

// Upload is an image file received from a client, not yet stored.
type Upload struct {
	Filename string
	Size     int64

	open func() (io.ReadSeekCloser, error)
}

// FromFileHeader wraps a multipart file part.
func FromFileHeader(fh *multipart.FileHeader) *Upload {
	return &Upload{
		Filename: fh.Filename,
		Size:     fh.Size,
		open: func() (io.ReadSeekCloser, error) {
			return fh.Open()
		},
	}
}

// NewUpload builds an upload from bytes already in memory.
func NewUpload(filename string, data []byte) *Upload {
	return &Upload{
		Filename: filename,
		Size:     int64(len(data)),
		open: func() (io.ReadSeekCloser, error) {
			return nopCloser{bytes.NewReader(data)}, nil
		},
	}
}

// Open returns a fresh reader over the upload content.
func (u *Upload) Open() (io.ReadSeekCloser, error) {
	return u.open()
}

// Detect sniffs the upload content; the client supplied name is not trusted.
func (u *Upload) Detect() (*mimetype.MIME, error) {
	f, err := u.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	mt, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detect upload type: %w", err)
	}
	return mt, nil
}

type nopCloser struct {
	*bytes.Reader
}

func (nopCloser) Close() error { return nil }
