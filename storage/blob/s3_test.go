package blobstore

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/findgreatschool/core"
)

// fakeS3 is a tiny in-memory subset of S3 (PUT and DELETE object), enough to exercise the adapter without network access.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(req.URL.Path, "/")
	ok := func() *http.Response {
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}
	}
	switch req.Method {
	case http.MethodPut:
		data, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		f.objects[key] = data
		f.types[key] = req.Header.Get("Content-Type")
		res := ok()
		res.Header.Set("ETag", `"etag"`)
		return res, nil
	case http.MethodDelete:
		delete(f.objects, key)
		res := ok()
		res.StatusCode = http.StatusNoContent
		return res, nil
	}
	return &http.Response{StatusCode: http.StatusMethodNotAllowed, Body: io.NopCloser(bytes.NewReader(nil)), Header: http.Header{}}, nil
}

func newTestStore(t *testing.T, mutate func(*core.Config)) (*Store, *fakeS3) {
	t.Helper()
	conf := core.NewTestConfig()
	conf.Blob.AccessKeyID = "AKIA"
	conf.Blob.SecretAccessKey = "SECRET"
	conf.Blob.Endpoint = "https://mock.s3.local"
	conf.Blob.PathStyle = true
	if mutate != nil {
		mutate(conf)
	}
	fake := &fakeS3{objects: make(map[string][]byte), types: make(map[string]string)}
	store, err := New(context.Background(), conf, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: fake}
	})
	require.NoError(t, err)
	return store, fake
}

func TestStore_Upload(t *testing.T) {
	store, fake := newTestStore(t, nil)

	data := []byte("fake png")
	url, err := store.Upload(context.Background(), "user-1/1700000000000-front.png", bytes.NewReader(data), int64(len(data)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/institution-images/user-1/1700000000000-front.png", url)

	key := "institution-images/user-1/1700000000000-front.png"
	assert.Equal(t, data, fake.objects[key])
	assert.Equal(t, "image/png", fake.types[key])

	require.NoError(t, store.Delete(context.Background(), "user-1/1700000000000-front.png"))
	assert.NotContains(t, fake.objects, key)
}

func TestPublicBase(t *testing.T) {
	tests := []struct {
		name string
		conf core.BlobConfig
		want string
	}{
		{name: "explicit", conf: core.BlobConfig{Bucket: "b", PublicBaseURL: "https://cdn.example.com/imgs/"}, want: "https://cdn.example.com/imgs"},
		{name: "custom endpoint", conf: core.BlobConfig{Bucket: "b", Endpoint: "http://localhost:9000/"}, want: "http://localhost:9000/b"},
		{name: "aws", conf: core.BlobConfig{Bucket: "b"}, want: "https://b.s3.ap-south-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicBase(tt.conf, "ap-south-1"))
		})
	}
}

func TestStore_URL_escapesSegments(t *testing.T) {
	store, _ := newTestStore(t, nil)
	assert.Equal(t, "https://cdn.test/institution-images/u%201/a%3Fb.png", store.URL("u 1/a?b.png"))
}

func TestNew_requiresBucket(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Blob.Bucket = ""
	_, err := New(context.Background(), conf)
	assert.Error(t, err)
}
