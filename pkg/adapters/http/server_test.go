package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/cmdgraph"
	"github.com/aretw0/cmdgraph/pkg/domain"
	"github.com/aretw0/cmdgraph/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func newEngine(t *testing.T, opts ...cmdgraph.Option) *cmdgraph.Engine {
	t.Helper()
	ctx := context.Background()
	eng := cmdgraph.New(append([]cmdgraph.Option{cmdgraph.WithPluginName("warps")}, opts...)...)
	require.NoError(t, eng.Register(ctx, dsl.Command("warp").Namespace("warps").Argument("target", "string").Build()))
	require.NoError(t, eng.Enable(ctx))
	return eng
}

func do(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestServer_Inspection(t *testing.T) {
	handler := NewHandler(newEngine(t))

	w := do(t, handler, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, handler, http.MethodGet, "/phase")
	assert.JSONEq(t, `{"phase":"can_register"}`, w.Body.String())

	w = do(t, handler, http.MethodGet, "/tree/published")
	require.Equal(t, http.StatusOK, w.Code)
	var nodes []domain.NodeSnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &nodes))
	require.Len(t, nodes, 2)
	assert.Equal(t, "warp", nodes[0].Name)
	assert.Equal(t, "warps:warp", nodes[1].Name)

	w = do(t, handler, http.MethodGet, "/tree/bogus")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, handler, http.MethodGet, "/registry")
	var reg map[string]domain.RegistrySnapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reg))
	assert.Equal(t, "warp", reg["warps:warp"].Target)

	w = do(t, handler, http.MethodGet, "/help")
	var topics []domain.HelpTopic
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &topics))
	require.NotEmpty(t, topics)
	assert.Equal(t, "/warp", topics[0].Name)

	w = do(t, handler, http.MethodGet, "/graph?tree=published")
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "graph LR"))
}

func TestServer_DeleteCommand(t *testing.T) {
	handler := NewHandler(newEngine(t))

	w := do(t, handler, http.MethodDelete, "/commands/warp?namespaced=true")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Removed []string `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"warp", "warps:warp"}, resp.Removed)

	// Idempotent.
	w = do(t, handler, http.MethodDelete, "/commands/warp?namespaced=true")
	assert.JSONEq(t, `{"removed":[]}`, w.Body.String())

	w = do(t, handler, http.MethodDelete, "/commands/warp?namespaced=maybe")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Seal(t *testing.T) {
	handler := NewHandler(newEngine(t))

	w := do(t, handler, http.MethodPost, "/lifecycle/seal")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"phase":"loaded"}`, w.Body.String())

	w = do(t, handler, http.MethodPost, "/lifecycle/seal")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestServer_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok_metric 1\n"))
	})
	handler := NewHandler(newEngine(t), WithMetrics(metrics))

	w := do(t, handler, http.MethodGet, "/metrics")
	assert.Equal(t, "ok_metric 1\n", w.Body.String())

	w = do(t, NewHandler(newEngine(t)), http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeEvents_Notifications(t *testing.T) {
	defer goleak.VerifyNone(t)

	streams := NewStreamManager(nil)
	eng := newEngine(t,
		cmdgraph.WithNotifier(streams),
		cmdgraph.WithLifecycleHooks(streams.Hooks()),
	)
	handler := NewHandler(eng, WithStreams(streams))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/events", nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		handler.ServeHTTP(w, req)
	}()

	require.Eventually(t, func() bool { return streams.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	ctx := context.Background()
	require.NoError(t, eng.Seal(ctx))
	require.NoError(t, eng.Register(ctx, dsl.Command("home").Namespace("warps").Build()))
	streams.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("SSE handler did not return")
	}

	body := w.Body.String()
	assert.Contains(t, body, "event: ping")
	assert.Contains(t, body, "event: phase")
	assert.Contains(t, body, "event: register")
	assert.Contains(t, body, "event: commands")
	assert.Less(t, strings.Index(body, "event: commands"), strings.Index(body, "event: register"),
		"clients are notified during the call, hooks fire after it returns")
}
