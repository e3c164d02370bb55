package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/lumenforge/treelight/internal/camera"
	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/registry"
	"github.com/lumenforge/treelight/internal/scene"
	"github.com/lumenforge/treelight/internal/store"
)

func newTestState(t *testing.T) *State {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "photos.json"))
	require.NoError(t, err)
	cam := camera.New()
	eng := scene.NewEngine(layout.DefaultTree(), cam, nil)
	eng.SetCount(layout.Ball, 3)
	return NewState(eng, cam, st, nil)
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func waitTarget(t *testing.T, eng *scene.Engine, want float64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if eng.Target() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("target never reached %v, at %v", want, eng.Target())
}

// Open hand disperses, closed hand assembles; undetected frames are ignored.
func TestGestureDrivesMixTarget(t *testing.T) {
	s := newTestState(t)
	srv := httptest.NewServer(http.HandlerFunc(s.HandleGestureWS))
	defer srv.Close()

	conn := dial(t, srv, "")
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Gesture{IsOpen: false, IsDetected: true}))
	waitTarget(t, s.Eng, 1)

	require.NoError(t, conn.WriteJSON(Gesture{IsOpen: true, IsDetected: true}))
	waitTarget(t, s.Eng, 0)

	// Lost hand: nothing changes.
	require.NoError(t, conn.WriteJSON(Gesture{IsOpen: false, IsDetected: false}))
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, 0.0, s.Eng.Target())
}

func TestControlPutAndDeletePhoto(t *testing.T) {
	s := newTestState(t)
	srv := httptest.NewServer(http.HandlerFunc(s.HandleControlWS))
	defer srv.Close()

	conn := dial(t, srv, "")
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{
		"putPhoto": store.Record{
			Kind:      registry.Card,
			Message:   "seasons greetings",
			Transform: registry.FrameTransform{Scale: 99},
		},
	}))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(s.Store.List()) == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	recs := s.Store.List()
	require.Len(t, recs, 1)
	// Clamped through the save path.
	require.Equal(t, 2.5, recs[0].Transform.Scale)

	require.NoError(t, conn.WriteJSON(map[string]any{"deletePhoto": recs[0].Key}))
	deadline = time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && len(s.Store.List()) != 0 {
		time.Sleep(5 * time.Millisecond)
	}
	require.Empty(t, s.Store.List())
}

func TestControlCountsAndBrightness(t *testing.T) {
	s := newTestState(t)
	srv := httptest.NewServer(http.HandlerFunc(s.HandleControlWS))
	defer srv.Close()

	conn := dial(t, srv, "")
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]any{
		"counts":     map[string]int{"ball": 7, "nonsense": 4},
		"brightness": 0.4,
	}))

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && s.Eng.Brightness() != 0.4 {
		time.Sleep(5 * time.Millisecond)
	}
	require.Equal(t, 0.4, s.Eng.Brightness())

	_ = s.Eng.Tick(1.0 / 60.0)
	require.Len(t, s.Eng.Snapshot().Transforms, 7)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestState(t)
	_ = s.Eng.Tick(1.0 / 60.0)
	srv := httptest.NewServer(http.HandlerFunc(s.HandleHealth))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.EqualValues(t, 1, body["frame_id"])
	require.EqualValues(t, 3, body["slots"])
}
