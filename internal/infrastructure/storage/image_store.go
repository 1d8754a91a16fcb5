package storage

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrUnsupportedImage = errors.New("image must be jpeg, png or webp")
	ErrImageTooLarge    = errors.New("image exceeds the size limit")
)

// ImageStore keeps property pictures. Save returns the reference persisted on
// the property; Delete accepts that same reference.
type ImageStore interface {
	Save(ctx context.Context, ownerID string, r io.Reader) (string, error)
	Delete(ctx context.Context, ref string) error
}

var allowed = []struct {
	mime string
	ext  string
}{
	{"image/jpeg", ".jpg"},
	{"image/png", ".png"},
	{"image/webp", ".webp"},
}

// sniff detects the content type from the first bytes and returns a reader
// that still yields the whole stream.
func sniff(r io.Reader) (contentType, ext string, body io.Reader, err error) {
	br := bufio.NewReaderSize(r, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return "", "", nil, fmt.Errorf("read image: %w", err)
	}
	if len(head) == 0 {
		return "", "", nil, ErrUnsupportedImage
	}
	mt := mimetype.Detect(head)
	for _, a := range allowed {
		if mt.Is(a.mime) {
			return a.mime, a.ext, br, nil
		}
	}
	return "", "", nil, ErrUnsupportedImage
}

// limited fails with ErrImageTooLarge once more than max bytes were read.
type limited struct {
	r   io.Reader
	n   int64
	max int64
}

func limitReader(r io.Reader, max int64) io.Reader {
	if max <= 0 {
		return r
	}
	return &limited{r: r, max: max}
}

func (l *limited) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.n += int64(n)
	if l.n > l.max {
		return n, ErrImageTooLarge
	}
	return n, err
}

func objectName(ownerID, ext string) string {
	return path.Join("properties", ownerID, uuid.NewString()+ext)
}
