package imageutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"testing"
)

func encode(t *testing.T, w, h int, format string) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	}
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestFitWithin(t *testing.T) {
	tests := []struct {
		desc             string
		w, h, maxW, maxH int
		wantW, wantH     int
	}{
		{"already fits", 100, 50, 200, 200, 100, 50},
		{"wide", 920, 430, 460, 430, 460, 215},
		{"tall", 400, 800, 400, 400, 200, 400},
		{"no limits", 3840, 1240, 0, 0, 3840, 1240},
		{"width only", 400, 200, 100, 0, 100, 50},
		{"empty", 0, 10, 10, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			w, h := FitWithin(tt.w, tt.h, tt.maxW, tt.maxH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("FitWithin = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestNormalizeArtwork(t *testing.T) {
	t.Run("png passthrough", func(t *testing.T) {
		in := encode(t, 40, 20, "png")
		out, err := NormalizeArtwork(in, 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(in, out) {
			t.Error("png without scaling was re-encoded")
		}
	})

	t.Run("jpeg converted", func(t *testing.T) {
		out, err := NormalizeArtwork(encode(t, 40, 20, "jpeg"), 0, 0)
		if err != nil {
			t.Fatal(err)
		}
		_, format, err := image.DecodeConfig(bytes.NewReader(out))
		if err != nil || format != "png" {
			t.Errorf("format = %q, %v", format, err)
		}
	})

	t.Run("scaled down", func(t *testing.T) {
		out, err := NormalizeArtwork(encode(t, 400, 200, "png"), 100, 100)
		if err != nil {
			t.Fatal(err)
		}
		cfg, _, err := image.DecodeConfig(bytes.NewReader(out))
		if err != nil {
			t.Fatal(err)
		}
		if cfg.Width != 100 || cfg.Height != 50 {
			t.Errorf("size = %dx%d, want 100x50", cfg.Width, cfg.Height)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := NormalizeArtwork([]byte("nope"), 0, 0); err == nil {
			t.Error("expected decode error")
		}
	})
}

func TestCreateTempQRCode(t *testing.T) {
	path, err := CreateTempQRCode("https://opengoal.dev/", 300)
	if err != nil {
		t.Fatalf("CreateTempQRCode: %v", err)
	}
	defer os.Remove(path)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if _, format, err := image.DecodeConfig(f); err != nil || format != "png" {
		t.Errorf("qr code format = %q, %v", format, err)
	}
}
