package update

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	uatomic "go.uber.org/atomic"
)

func TestFindAssetMatching(t *testing.T) {
	release := Release{
		TagName: "v0.2.13",
		Assets: []Asset{
			{Name: "opengoal-windows-v0.2.13.zip"},
			{Name: "opengoal-linux-v0.2.13.tar.gz.sha256"},
			{Name: "opengoal-linux-v0.2.13.tar.gz"},
			{Name: "opengoal-macos-intel-v0.2.13.tar.gz"},
		},
	}

	got := release.FindAssetMatching("opengoal-linux-", ".tar.gz")
	if got == nil || got.Name != "opengoal-linux-v0.2.13.tar.gz" {
		t.Fatalf("FindAssetMatching = %v, want linux tarball", got)
	}
	if release.FindAssetMatching("opengoal-freebsd-", ".tar.gz") != nil {
		t.Error("FindAssetMatching found an asset that does not exist")
	}
	if release.FindAsset("opengoal-windows-v0.2.13.zip") == nil {
		t.Error("FindAsset missed exact name")
	}
}

func TestLatestRelease(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/open-goal/jak-project/releases/latest" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(Release{
			TagName: "v0.2.13",
			Assets:  []Asset{{Name: "opengoal-linux-v0.2.13.tar.gz", Size: 1024}},
		})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithToken("secret"))
	release, err := client.LatestRelease(context.Background(), DefaultOwner, DefaultRepo)
	if err != nil {
		t.Fatalf("LatestRelease: %v", err)
	}
	if release.TagName != "v0.2.13" || len(release.Assets) != 1 {
		t.Errorf("release = %+v", release)
	}
}

func TestListReleasesEncodesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("per_page"); got != "5" {
			t.Errorf("per_page = %q, want 5", got)
		}
		if got := r.URL.Query().Get("page"); got != "" {
			t.Errorf("page = %q, want empty", got)
		}
		json.NewEncoder(w).Encode([]Release{{TagName: "v0.2.13"}, {TagName: "v0.2.12"}})
	}))
	defer srv.Close()

	releases, err := NewClient(WithBaseURL(srv.URL)).ListReleases(context.Background(), DefaultOwner, DefaultRepo, ListOptions{PerPage: 5})
	if err != nil {
		t.Fatalf("ListReleases: %v", err)
	}
	if len(releases) != 2 {
		t.Errorf("len = %d, want 2", len(releases))
	}
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		json.NewEncoder(w).Encode(Release{TagName: "v0.2.13"})
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRetries(3, time.Millisecond))
	release, err := client.LatestRelease(context.Background(), DefaultOwner, DefaultRepo)
	if err != nil {
		t.Fatalf("LatestRelease: %v", err)
	}
	if release.TagName != "v0.2.13" {
		t.Errorf("TagName = %q", release.TagName)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	tests := []struct {
		desc   string
		status int
		want   error
	}{
		{"not found", http.StatusNotFound, ErrNoReleases},
		{"rate limited", http.StatusForbidden, ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := NewClient(WithBaseURL(srv.URL), WithRetries(3, time.Millisecond))
			_, err := client.LatestRelease(context.Background(), DefaultOwner, DefaultRepo)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
			var statusErr *StatusError
			if !errors.As(err, &statusErr) || statusErr.StatusCode != tt.status {
				t.Errorf("error %v is not a StatusError with %d", err, tt.status)
			}
			if calls.Load() != 1 {
				t.Errorf("calls = %d, want 1", calls.Load())
			}
		})
	}
}

func TestDownloadReportsProgress(t *testing.T) {
	payload := strings.Repeat("x", 100*1024)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "102400")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "nested", "opengoal-linux.tar.gz")
	progress := uatomic.NewFloat64(0)

	n, err := NewClient().Download(context.Background(), srv.URL, dest, progress)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if n != int64(len(payload)) {
		t.Errorf("written = %d, want %d", n, len(payload))
	}
	if progress.Load() != 1 {
		t.Errorf("progress = %f, want 1", progress.Load())
	}
	data, err := os.ReadFile(dest)
	if err != nil || len(data) != len(payload) {
		t.Errorf("ReadFile = %d bytes, %v", len(data), err)
	}
	if _, err := os.Stat(dest + ".part"); !os.IsNotExist(err) {
		t.Errorf("temporary file left behind: %v", err)
	}
}

func TestDownloadFailureLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "asset.tar.gz")
	if _, err := NewClient().Download(context.Background(), srv.URL, dest, nil); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Errorf("dest exists after failed download: %v", err)
	}
}
