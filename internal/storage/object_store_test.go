package storage

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faiz-1107/AMK-Project-Management/internal/config"
)

// fakeS3 serves path-style object requests for a single bucket from memory.
type fakeS3 struct {
	bucket  string
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	prefix := "/" + f.bucket + "/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		w.WriteHeader(http.StatusOK)
		return
	}
	key := strings.TrimPrefix(r.URL.Path, prefix)

	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, err := readS3Body(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.objects[key] = body
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			if r.Method == http.MethodGet {
				fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message><Key>%s</Key><BucketName>%s</BucketName></Error>`, key, f.bucket)
			}
			return
		}
		w.Header().Set("ETag", `"etag"`)
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			_, _ = w.Write(data)
		}
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// readS3Body accepts both plain and aws-chunked uploads.
func readS3Body(r *http.Request) ([]byte, error) {
	if !strings.HasPrefix(r.Header.Get("X-Amz-Content-Sha256"), "STREAMING-") {
		return io.ReadAll(r.Body)
	}
	var out bytes.Buffer
	br := bufio.NewReader(r.Body)
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, err
		}
		sizeHex := strings.TrimSpace(strings.SplitN(line, ";", 2)[0])
		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil {
			return nil, err
		}
		if size == 0 {
			return out.Bytes(), nil
		}
		if _, err := io.CopyN(&out, br, size); err != nil {
			return nil, err
		}
		if _, err := br.Discard(2); err != nil {
			return nil, err
		}
	}
}

func newFakeObjectStore(t *testing.T, namespace string) (*ObjectStore, *fakeS3) {
	t.Helper()
	fake := &fakeS3{bucket: "amk-console", objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewObjectStore(config.S3Config{
		Endpoint:  srv.URL,
		AccessKey: "key",
		SecretKey: "secret",
		Bucket:    fake.bucket,
		Region:    "us-east-1",
	}, namespace)
	require.NoError(t, err)
	return store, fake
}

func TestObjectStore(t *testing.T) {
	store, fake := newFakeObjectStore(t, "amk")
	exerciseStorage(t, store)

	require.NoError(t, store.Set(context.Background(), "user", `{"id":"u1"}`))
	fake.mu.Lock()
	defer fake.mu.Unlock()
	assert.Equal(t, `{"id":"u1"}`, string(fake.objects["amk/user"]))
}

func TestNewObjectStoreEndpointScheme(t *testing.T) {
	store, err := NewObjectStore(config.S3Config{Endpoint: "https://s3.example.com", Bucket: "b", Region: "us-east-1"}, "")
	require.NoError(t, err)
	assert.Equal(t, "https", store.client.EndpointURL().Scheme)
	assert.Equal(t, "s3.example.com", store.client.EndpointURL().Host)
	assert.Equal(t, "token", store.objectName("token"))

	store, err = NewObjectStore(config.S3Config{Endpoint: "localhost:9000", Bucket: "b"}, "amk")
	require.NoError(t, err)
	assert.Equal(t, "http", store.client.EndpointURL().Scheme)
	assert.Equal(t, "amk/token", store.objectName("token"))
}

func TestNewObjectStoreRejectsBadEndpoint(t *testing.T) {
	_, err := NewObjectStore(config.S3Config{Endpoint: "http://bad host:9000"}, "")
	assert.Error(t, err)
}

func TestOpenS3Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := Open(ctx, config.StorageConfig{
		Driver: "s3",
		S3:     config.S3Config{Endpoint: "http://127.0.0.1:1", Bucket: "amk-console", Region: "us-east-1"},
	})
	assert.Error(t, err)
}
