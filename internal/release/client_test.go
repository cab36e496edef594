package release

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const feedBody = `[
  {
    "tag_name": "v2.0.0",
    "name": "NexCart 2.0.0",
    "published_at": "2026-02-01T00:00:00Z",
    "assets": [
      {"name": "App-2.0.0.zip", "browser_download_url": "https://dl/App-2.0.0.zip", "size": 1000000}
    ]
  },
  {
    "tag_name": "v1.9.0",
    "name": "NexCart 1.9.0",
    "published_at": "2026-01-01T00:00:00Z",
    "assets": []
  }
]`

func TestFetchReleases(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/releases" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("User-Agent"); got != "nexcart-installer" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Write([]byte(feedBody))
	}))
	defer srv.Close()

	c := New(srv.URL + "/releases")
	releases, err := c.FetchReleases(context.Background())
	if err != nil {
		t.Fatalf("FetchReleases: %v", err)
	}
	if len(releases) != 2 {
		t.Fatalf("got %d releases, want 2", len(releases))
	}
	if releases[0].TagName != "v2.0.0" {
		t.Errorf("TagName = %q", releases[0].TagName)
	}
	if releases[0].Version() != "2.0.0" {
		t.Errorf("Version() = %q, want 2.0.0", releases[0].Version())
	}
	if len(releases[0].Assets) != 1 || releases[0].Assets[0].Size != 1000000 {
		t.Errorf("assets not decoded: %+v", releases[0].Assets)
	}
}

func TestFetchReleaseByTag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/releases/tags/v1.9.0" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"tag_name": "v1.9.0"}`))
	}))
	defer srv.Close()

	c := New(srv.URL + "/releases")

	// A bare version gets the v prefix added.
	rel, err := c.FetchReleaseByTag(context.Background(), "1.9.0")
	if err != nil {
		t.Fatalf("FetchReleaseByTag: %v", err)
	}
	if rel.TagName != "v1.9.0" {
		t.Errorf("TagName = %q", rel.TagName)
	}

	if _, err := c.FetchReleaseByTag(context.Background(), "v0.0.1"); err == nil {
		t.Error("expected error for unknown tag")
	} else if err.Error() != "no releases found" {
		t.Errorf("err = %q, want no releases found", err)
	}
}

func TestFetchReleasesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := New(srv.URL).FetchReleases(context.Background()); err == nil {
		t.Error("expected error on 500")
	}
}

func TestFetchReleasesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"this is": "not a list"`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL).FetchReleases(context.Background()); err == nil {
		t.Error("expected parse error")
	}
}

type failingDoer struct{ err error }

func (d failingDoer) Do(*http.Request) (*http.Response, error) { return nil, d.err }

func TestFetchReleasesNetworkFailure(t *testing.T) {
	c := NewWith("http://feed.invalid", failingDoer{err: errors.New("dial refused")})
	_, err := c.FetchReleases(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}
