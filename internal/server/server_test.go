package server

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/san-kum/fluidbg/internal/compute"
	"github.com/san-kum/fluidbg/internal/config"
	"github.com/san-kum/fluidbg/internal/fluid"
	"github.com/san-kum/fluidbg/internal/frame"
)

var fixedNow = time.Unix(1000, 0)

func testConfig() config.ServerConfig {
	cfg := config.DefaultConfig().Server
	cfg.Addr = "127.0.0.1:0"
	cfg.RateLimit = 0
	return cfg
}

func newTestServer(t *testing.T, cfg config.ServerConfig) *Server {
	t.Helper()
	gen, err := fluid.New(fluid.Options{Width: 8, Height: 6, Backend: compute.NewSerialBackend()})
	require.NoError(t, err)
	return New(cfg, gen, zaptest.NewLogger(t), WithClock(func() time.Time { return fixedNow }))
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestRoot(t *testing.T) {
	rec := get(t, newTestServer(t, testConfig()).Handler(), "/api/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]string{"message": "Hello World"}, decode[map[string]string](t, rec))
}

func TestFluidFrameWithTime(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()

	rec := get(t, h, "/api/fluid-frame?t=1.25")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	resp := decode[FrameResponse](t, rec)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, 1.25, resp.Timestamp)
	assert.Zero(t, resp.NextFrameDelay)

	buf, format, err := frame.DecodeDataURI(resp.Frame)
	require.NoError(t, err)
	assert.Equal(t, frame.PNG, format)
	assert.Equal(t, 8, buf.Width)
	assert.Equal(t, 6, buf.Height)
}

func TestFluidFrameDefaultTime(t *testing.T) {
	rec := get(t, newTestServer(t, testConfig()).Handler(), "/api/fluid-frame")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 500.0, decode[FrameResponse](t, rec).Timestamp)
}

func TestFluidFrameDeterministic(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()
	a := decode[FrameResponse](t, get(t, h, "/api/fluid-frame?t=3"))
	b := decode[FrameResponse](t, get(t, h, "/api/fluid-frame?t=3"))
	assert.Equal(t, a.Frame, b.Frame)
}

func TestFluidFrameBadRequests(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()

	tests := []struct {
		target string
		code   int
	}{
		{"/api/fluid-frame?t=soon", http.StatusBadRequest},
		{"/api/fluid-frame?t=0&scheme=sunset", http.StatusBadRequest},
		{"/api/fluid-frame?t=0&format=webp", http.StatusBadRequest},
		{"/api/fluid-frame?t=NaN", http.StatusBadRequest},
		{"/api/fluid-frame?t=Inf", http.StatusBadRequest},
		{"/api/fluid-frame?t=-Inf", http.StatusBadRequest},
		{"/api/fluid-frame?t=1e400", http.StatusBadRequest},
	}
	for _, tt := range tests {
		rec := get(t, h, tt.target)
		assert.Equal(t, tt.code, rec.Code, tt.target)
		resp := decode[ErrorResponse](t, rec)
		assert.Equal(t, "error", resp.Status, tt.target)
		assert.NotEmpty(t, resp.Message, tt.target)
	}

	// the generator keeps working after a rejected scheme
	rec := get(t, h, "/api/fluid-frame?t=0&scheme=ai_theme")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRespondJSONEncodeFailure(t *testing.T) {
	s := newTestServer(t, testConfig())
	rec := httptest.NewRecorder()
	s.respondJSON(rec, http.StatusOK, FrameResponse{Status: "success", Timestamp: math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrorResponse{Status: "error", Message: "failed to encode response"}, decode[ErrorResponse](t, rec))
}

func TestFluidStream(t *testing.T) {
	rec := get(t, newTestServer(t, testConfig()).Handler(), "/api/fluid-stream")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decode[FrameResponse](t, rec)
	assert.Equal(t, "success", resp.Status)
	assert.InDelta(t, 300.0, resp.Timestamp, 1e-9)
	assert.Equal(t, 100, resp.NextFrameDelay)
	assert.Contains(t, resp.Frame, "data:image/jpeg;base64,")
}

func TestFluidConfig(t *testing.T) {
	rec := get(t, newTestServer(t, testConfig()).Handler(), "/api/fluid-config")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, ConfigResponse{
		Width:          8,
		Height:         6,
		Device:         "serial",
		AnimationSpeed: 0.3,
		ColorScheme:    "ai_theme",
	}, decode[ConfigResponse](t, rec))
}

type brokenSource struct{}

func (brokenSource) FrameDataURI(float64, string, frame.Format) (string, error) {
	return "", errors.New("backend exploded")
}

func (brokenSource) Info() fluid.Info { return fluid.Info{Width: 1, Height: 1, Device: "none"} }

func TestGenerationFailure(t *testing.T) {
	s := New(testConfig(), brokenSource{}, zaptest.NewLogger(t))
	rec := get(t, s.Handler(), "/api/fluid-frame?t=0")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ErrorResponse{Status: "error", Message: "backend exploded"}, decode[ErrorResponse](t, rec))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = 0.001
	cfg.RateBurst = 1
	h := newTestServer(t, cfg).Handler()

	assert.Equal(t, http.StatusOK, get(t, h, "/api/fluid-frame?t=0").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, "/api/fluid-frame?t=0").Code)
	// config is not rate limited
	assert.Equal(t, http.StatusOK, get(t, h, "/api/fluid-config").Code)
}

func TestCORS(t *testing.T) {
	h := newTestServer(t, testConfig()).Handler()
	rec := get(t, h, "/api/fluid-config")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	cfg := testConfig()
	cfg.CORSOrigins = []string{"https://site.example"}
	h = newTestServer(t, cfg).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/fluid-frame", nil)
	req.Header.Set("Origin", "https://site.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://site.example", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/api/fluid-config", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestStaticMount(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.txt"), []byte("hi"), 0o644))

	cfg := testConfig()
	cfg.StaticDir = dir
	rec := get(t, newTestServer(t, cfg).Handler(), "/static/hello.txt")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hi", rec.Body.String())
}

func TestServeShutsDownCleanly(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	s := newTestServer(t, testConfig())
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/api/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	client.CloseIdleConnections()
}
