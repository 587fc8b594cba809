package fileutil

import (
	"archive/tar"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/atomic"
)

type tarEntry struct {
	name     string
	body     string
	typeflag byte
	mode     int64
	link     string
}

func writeTarball(t *testing.T, entries []tarEntry) string {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		mode := e.mode
		if mode == 0 {
			mode = 0644
		}
		hdr := &tar.Header{Name: e.name, Typeflag: e.typeflag, Mode: mode, Size: int64(len(e.body)), Linkname: e.link}
		if e.typeflag != tar.TypeReg {
			hdr.Size = 0
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if e.typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
		}
	}

	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "release.tar.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUntar(t *testing.T) {
	archive := writeTarball(t, []tarEntry{
		{name: "data/", typeflag: tar.TypeDir, mode: 0755},
		{name: "extractor", body: "#!/bin/sh\n", typeflag: tar.TypeReg, mode: 0755},
		{name: "gk", body: strings.Repeat("g", 4096), typeflag: tar.TypeReg, mode: 0755},
		{name: "data/game/readme.txt", body: "hello", typeflag: tar.TypeReg},
	})

	dest := filepath.Join(t.TempDir(), "jak1")
	progress := atomic.NewFloat64(0)

	if err := Untar(archive, dest, progress); err != nil {
		t.Fatalf("Untar: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dest, "data", "game", "readme.txt"))
	if err != nil || string(data) != "hello" {
		t.Errorf("readme = %q, %v", data, err)
	}

	info, err := os.Stat(filepath.Join(dest, "extractor"))
	if err != nil {
		t.Fatalf("stat extractor: %v", err)
	}
	if info.Mode().Perm()&0100 == 0 {
		t.Errorf("extractor mode = %v, want executable", info.Mode())
	}

	if progress.Load() != 1 {
		t.Errorf("progress = %f, want 1", progress.Load())
	}
}

func TestUntarRejectsTraversal(t *testing.T) {
	tests := []struct {
		desc  string
		entry tarEntry
	}{
		{"parent path", tarEntry{name: "../evil.txt", body: "x", typeflag: tar.TypeReg}},
		{"nested parent path", tarEntry{name: "data/../../evil.txt", body: "x", typeflag: tar.TypeReg}},
		{"symlink out", tarEntry{name: "link", typeflag: tar.TypeSymlink, link: "../../etc/passwd"}},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			archive := writeTarball(t, []tarEntry{tt.entry})
			dest := filepath.Join(t.TempDir(), "out")

			err := Untar(archive, dest, nil)
			if !errors.Is(err, ErrUnsafePath) {
				t.Errorf("Untar error = %v, want ErrUnsafePath", err)
			}
		})
	}
}

func TestUntarNotGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plain.tar.gz")
	os.WriteFile(path, []byte("not a gzip stream"), 0644)

	if err := Untar(path, t.TempDir(), nil); err == nil {
		t.Error("expected error for non-gzip input")
	}
}

func TestCopyWithProgress(t *testing.T) {
	var dst bytes.Buffer
	progress := atomic.NewFloat64(0)

	n, err := CopyWithProgress(&dst, strings.NewReader("abcdefgh"), 8, progress)
	if err != nil || n != 8 {
		t.Fatalf("CopyWithProgress = %d, %v", n, err)
	}
	if progress.Load() != 1 {
		t.Errorf("progress = %f, want 1", progress.Load())
	}
	if !FileExists(t.TempDir()) {
		t.Error("FileExists returned false for an existing directory")
	}
}
