package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Memory keeps objects in process. It backs local development without an
// S3 endpoint and the service tests.
type Memory struct {
	mu      sync.Mutex
	objects map[string][]byte
	baseURL string
}

func NewMemory(baseURL string) *Memory {
	return &Memory{
		objects: make(map[string][]byte),
		baseURL: baseURL,
	}
}

func (m *Memory) Save(ctx context.Context, path string, file io.Reader, _ string) error {
	var buf bytes.Buffer
	_, err := io.Copy(&buf, file)
	if err != nil {
		return fmt.Errorf("failed to read upload: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[path] = buf.Bytes()
	return nil
}

func (m *Memory) Delete(ctx context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, path)
	return nil
}

func (m *Memory) URL(path string) string {
	return m.baseURL + "/" + path
}

// Has reports whether an object is stored at path.
func (m *Memory) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[path]
	return ok
}

// ServeHTTP serves stored objects by path, for mounting under the base URL
// with http.StripPrefix.
func (m *Memory) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	data, ok := m.objects[strings.TrimPrefix(r.URL.Path, "/")]
	m.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}
