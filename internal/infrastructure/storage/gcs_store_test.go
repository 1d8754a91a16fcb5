package storage

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

// fakeGCS accepts object inserts and counts the ones whose body arrived in full.
type fakeGCS struct {
	srv       *httptest.Server
	committed atomic.Int32
	lastBody  atomic.Value
}

func newFakeGCS(t *testing.T) *fakeGCS {
	t.Helper()
	f := &fakeGCS{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || !strings.HasSuffix(r.URL.Path, "/b/test-bucket/o") {
			http.NotFound(w, r)
			return
		}
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return
		}
		f.committed.Add(1)
		f.lastBody.Store(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"bucket":"test-bucket","name":"obj"}`)
	}))
	return f
}

func (f *fakeGCS) client(t *testing.T) *storage.Client {
	t.Helper()
	c, err := storage.NewClient(context.Background(),
		option.WithEndpoint(f.srv.URL+"/storage/v1/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGCSStore_SaveUploadsObject(t *testing.T) {
	f := newFakeGCS(t)
	s := NewGCSStore(f.client(t), "test-bucket", 1<<20)

	ref, err := s.Save(context.Background(), "owner-1", bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "https://storage.googleapis.com/test-bucket/properties/owner-1/"))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	f.srv.Close()
	assert.Equal(t, int32(1), f.committed.Load())
	assert.True(t, bytes.Contains(f.lastBody.Load().([]byte), pngHeader))
}

func TestGCSStore_TooLargeAbortsUpload(t *testing.T) {
	f := newFakeGCS(t)
	s := NewGCSStore(f.client(t), "test-bucket", 32)

	payload := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 4096)...)
	_, err := s.Save(context.Background(), "owner-1", bytes.NewReader(payload))
	assert.ErrorIs(t, err, ErrImageTooLarge)

	// Close waits for in-flight handlers, so any committed upload is counted
	f.srv.Close()
	assert.Equal(t, int32(0), f.committed.Load())
}
