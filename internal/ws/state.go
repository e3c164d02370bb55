// Package ws is the scene's network surface: a gesture stream in, control
// messages in, composed frames out. Gesture classification itself happens in
// an external webcam process; this side only consumes its normalized signal.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/lumenforge/treelight/internal/camera"
	"github.com/lumenforge/treelight/internal/layout"
	"github.com/lumenforge/treelight/internal/registry"
	"github.com/lumenforge/treelight/internal/scene"
	"github.com/lumenforge/treelight/internal/store"
	"github.com/lumenforge/treelight/internal/texture"
)

// Gesture is the normalized signal from the external hand detector.
// x and y are roughly [-1, 1].
type Gesture struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	IsOpen     bool    `json:"isOpen"`
	IsDetected bool    `json:"isDetected"`
}

// State owns the HTTP/websocket surface and drives the engine loop.
type State struct {
	Eng    *scene.Engine
	Cam    *camera.Camera
	Store  *store.Store
	Loader *texture.Loader

	mu        sync.Mutex
	clients   map[*websocket.Conn]bool
	lastEmit  time.Time
	throttle  time.Duration
	startTime time.Time
}

func NewState(eng *scene.Engine, cam *camera.Camera, st *store.Store, loader *texture.Loader) *State {
	return &State{
		Eng:       eng,
		Cam:       cam,
		Store:     st,
		Loader:    loader,
		clients:   map[*websocket.Conn]bool{},
		throttle:  50 * time.Millisecond, // ~20 FPS to clients
		startTime: time.Now(),
	}
}

// ReloadPhotos rebinds the persisted photo set into the scene and kicks off
// texture loads for image entries.
func (s *State) ReloadPhotos(ctx context.Context) {
	entries := s.Store.Entries()
	s.Eng.SetPhotos(entries)
	if s.Loader == nil {
		return
	}
	for _, e := range entries {
		if e.Kind == registry.Image && e.SourceURL != "" {
			s.Loader.Fetch(ctx, registry.ContentKey(e), e.SourceURL, nil)
		}
	}
	log.Info().Int("photos", len(entries)).Msg("photo set rebound")
}

// RunLoop ticks the engine at fps and broadcasts frames until ctx ends.
func (s *State) RunLoop(ctx context.Context, fps int) {
	if fps <= 0 {
		fps = 60
	}
	dt := time.Second / time.Duration(fps)
	ticker := time.NewTicker(dt)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Eng.Tick(dt.Seconds()); err != nil {
				log.Error().Err(err).Msg("tick")
			}
			s.maybeBroadcast()
		}
	}
}

func (s *State) maybeBroadcast() {
	s.mu.Lock()
	now := time.Now()
	if s.lastEmit.Add(s.throttle).After(now) || len(s.clients) == 0 {
		s.mu.Unlock()
		return
	}
	s.lastEmit = now
	s.mu.Unlock()

	f := s.Eng.Snapshot()
	b, err := json.Marshal(f)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(200 * time.Millisecond))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// HandleGestureWS consumes the external gesture stream. An open hand
// disperses the tree, a closed hand assembles it; hand position drives the
// camera parallax. Frames with no detected hand change nothing.
func (s *State) HandleGestureWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var g Gesture
		if err := json.Unmarshal(data, &g); err != nil {
			continue
		}
		if !g.IsDetected {
			continue
		}
		if g.IsOpen {
			s.Eng.SetTarget(0)
		} else {
			s.Eng.SetTarget(1)
		}
		s.Cam.Parallax(g.X, g.Y)
	}
}

// HandleFramesWS registers a frame-stream client.
func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	s.mu.Lock()
	s.clients[conn] = true
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

type controlMsg struct {
	Mix      *float64 `json:"mix,omitempty"`
	Toggle   bool     `json:"toggle,omitempty"`
	Viewport *struct {
		W float64 `json:"w"`
		H float64 `json:"h"`
	} `json:"viewport,omitempty"`
	Orbit *struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	} `json:"orbit,omitempty"`
	Zoom       *float64       `json:"zoom,omitempty"`
	Brightness *float64       `json:"brightness,omitempty"`
	Counts     map[string]int `json:"counts,omitempty"`
	Focus      *struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	} `json:"focus,omitempty"`
	PutPhoto    *store.Record `json:"putPhoto,omitempty"`
	DeletePhoto string        `json:"deletePhoto,omitempty"`
}

// HandleControlWS applies UI control messages and answers focus queries.
func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg controlMsg
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		s.applyControl(r.Context(), conn, msg)
	}
}

func (s *State) applyControl(ctx context.Context, conn *websocket.Conn, msg controlMsg) {
	if msg.Mix != nil {
		s.Eng.SetTarget(*msg.Mix)
	}
	if msg.Toggle {
		s.Eng.Toggle()
	}
	if msg.Viewport != nil {
		s.Eng.SetViewport(msg.Viewport.W, msg.Viewport.H)
	}
	if msg.Orbit != nil {
		s.Cam.Orbit(msg.Orbit.DX, msg.Orbit.DY)
	}
	if msg.Zoom != nil {
		s.Cam.Zoom(*msg.Zoom)
	}
	if msg.Brightness != nil {
		s.Eng.SetBrightness(*msg.Brightness)
	}
	for name, n := range msg.Counts {
		kind, ok := layout.ParseKind(name)
		if !ok || kind == layout.Photo {
			log.Warn().Str("kind", name).Msg("count ignored")
			continue
		}
		s.Eng.SetCount(kind, n)
	}
	if msg.PutPhoto != nil {
		rec := *msg.PutPhoto
		if rec.Key == "" {
			rec.Key = registry.ContentKey(registry.PhotoEntry{
				Kind:      rec.Kind,
				SourceURL: rec.SourceURL,
				Message:   rec.Message,
				Signature: rec.Signature,
			})
		}
		if err := s.Store.Put(rec); err != nil {
			log.Error().Err(err).Str("key", rec.Key).Msg("put photo")
		} else {
			s.ReloadPhotos(ctx)
		}
	}
	if msg.DeletePhoto != "" {
		if err := s.Store.Delete(msg.DeletePhoto); err != nil {
			log.Error().Err(err).Str("key", msg.DeletePhoto).Msg("delete photo")
		} else {
			if s.Loader != nil {
				s.Loader.Cache.Invalidate(msg.DeletePhoto)
			}
			s.ReloadPhotos(ctx)
		}
	}
	if msg.Focus != nil {
		ev, ok := s.Eng.Focus(msg.Focus.X, msg.Focus.Y)
		resp := map[string]any{"focused": ok}
		if ok {
			resp["kind"] = ev.Kind.String()
			resp["index"] = ev.Index
			resp["contentKey"] = ev.ContentKey
			resp["origin"] = map[string]float64{"x": ev.ScreenOrigin.X, "y": ev.ScreenOrigin.Y}
		}
		b, _ := json.Marshal(resp)
		_ = conn.WriteMessage(websocket.TextMessage, b)
	}
}

// HandleHealth reports loop liveness and scene shape.
func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	f := s.Eng.Snapshot()
	resp := map[string]any{
		"frame_id":   f.Seq,
		"uptime_s":   time.Since(s.startTime).Seconds(),
		"slots":      len(f.Transforms),
		"mix_target": s.Eng.Target(),
		"compose_ms": s.Eng.Metrics().ComposeMS,
	}
	_ = json.NewEncoder(w).Encode(resp)
}
