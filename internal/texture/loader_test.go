package texture

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func pngBytes(t *testing.T, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func waitKey(t *testing.T, done <-chan string, want string) {
	t.Helper()
	select {
	case k := <-done:
		if k != want {
			t.Fatalf("completed key %q, want %q", k, want)
		}
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for %q", want)
	}
}

func TestFetchDecodesAndCaches(t *testing.T) {
	body := pngBytes(t, color.NRGBA{R: 200, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(body)
	}))
	defer srv.Close()

	cache := NewCache()
	l := NewLoader(cache)
	done := make(chan string, 1)
	l.Fetch(context.Background(), "k1", srv.URL, done)
	waitKey(t, done, "k1")

	img, ok := cache.Get("k1")
	if !ok || img == nil {
		t.Fatalf("texture not cached")
	}
	if r, _, _, _ := img.At(1, 1).RGBA(); r>>8 != 200 {
		t.Fatalf("decoded pixel mismatch: %d", r>>8)
	}
}

// A 404 produces the placeholder, never an error surfacing to the caller.
func TestFetch404YieldsPlaceholder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cache := NewCache()
	l := NewLoader(cache)
	done := make(chan string, 1)
	l.Fetch(context.Background(), "missing", srv.URL, done)
	waitKey(t, done, "missing")

	img, ok := cache.Get("missing")
	if !ok || img == nil {
		t.Fatalf("placeholder not stored")
	}
	if !img.Bounds().Eq(Placeholder("missing").Bounds()) {
		t.Fatalf("expected placeholder-sized texture")
	}
}

func TestInvalidateDropsStaleLoad(t *testing.T) {
	release := make(chan struct{})
	body := pngBytes(t, color.NRGBA{G: 120, A: 255})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Write(body)
	}))
	defer srv.Close()

	cache := NewCache()
	l := NewLoader(cache)
	done := make(chan string, 1)
	l.Fetch(context.Background(), "gone", srv.URL, done)

	// Content removed while the load is still in flight.
	cache.Invalidate("gone")
	close(release)

	select {
	case <-done:
		t.Fatalf("stale load must not complete")
	case <-time.After(300 * time.Millisecond):
	}
	if _, ok := cache.Get("gone"); ok {
		t.Fatalf("stale load resurrected deleted content")
	}
}

func TestPlaceholderDeterministic(t *testing.T) {
	a := Placeholder("some-key")
	b := Placeholder("some-key")
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatalf("placeholder should be deterministic per key")
	}
	c := Placeholder("other-key")
	if bytes.Equal(a.Pix, c.Pix) {
		t.Fatalf("different keys should tint differently")
	}
}

func TestDecodeGarbage(t *testing.T) {
	if _, err := Decode([]byte("definitely not an image")); err == nil {
		t.Fatalf("expected decode error")
	}
}
