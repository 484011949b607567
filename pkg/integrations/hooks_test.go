package integrations

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/lockgraph/pkg/cache"
	"github.com/matzehuels/lockgraph/pkg/observability"
)

type recordingHooks struct {
	observability.NoopCacheHooks
	observability.NoopHTTPHooks

	mu       sync.Mutex
	events   []string
	statuses []int
	setSizes []int
}

func (h *recordingHooks) add(ev string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, ev)
}

func (h *recordingHooks) OnCacheHit(context.Context, string)  { h.add("hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string) { h.add("miss") }
func (h *recordingHooks) OnCacheSet(_ context.Context, _ string, size int) {
	h.add("set")
	h.mu.Lock()
	h.setSizes = append(h.setSizes, size)
	h.mu.Unlock()
}

func (h *recordingHooks) OnRequest(context.Context, string, string, string) { h.add("request") }
func (h *recordingHooks) OnResponse(_ context.Context, _, _, _ string, status int, _ time.Duration) {
	h.add("response")
	h.mu.Lock()
	h.statuses = append(h.statuses, status)
	h.mu.Unlock()
}

func TestClientEmitsHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
	defer observability.Reset()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[[package]]\n"))
	}))
	defer server.Close()

	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	client := NewClient(fc, "lock:", time.Hour, nil)

	for range 2 {
		if _, err := client.CachedText(context.Background(), server.URL+"/Cargo.lock", false); err != nil {
			t.Fatalf("CachedText() error: %v", err)
		}
	}

	want := []string{"miss", "request", "response", "set", "hit"}
	if len(h.events) != len(want) {
		t.Fatalf("events = %v, want %v", h.events, want)
	}
	for i := range want {
		if h.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, h.events[i], want[i])
		}
	}
	if len(h.statuses) != 1 || h.statuses[0] != http.StatusOK {
		t.Errorf("statuses = %v", h.statuses)
	}
	if len(h.setSizes) != 1 || h.setSizes[0] == 0 {
		t.Errorf("set sizes = %v", h.setSizes)
	}
}
