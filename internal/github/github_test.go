package github_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kevinmichaelchen/repo-blurbs/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *github.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return github.NewClient(srv.URL, "secret").WithHTTPClient(srv.Client())
}

func TestListPageQueryAndHeaders(t *testing.T) {
	gh := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octo/repos", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "100", q.Get("per_page"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "owner", q.Get("type"))
		assert.Equal(t, "updated", q.Get("sort"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

		_, _ = w.Write([]byte(`[
			{"name":"a","full_name":"octo/a","html_url":"https://x/a","description":null,"stargazers_count":3,"language":"Go","fork":false,"updated_at":"2024-01-02T03:04:05Z"},
			{"name":"b","full_name":"octo/b","html_url":"https://x/b","description":"bee","stargazers_count":0,"language":null,"fork":true}
		]`))
	})

	repos, err := gh.ListPage(context.Background(), "octo", 2)
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, "octo/a", repos[0].FullName)
	assert.Nil(t, repos[0].Description)
	require.NotNil(t, repos[0].Language)
	assert.Equal(t, "Go", *repos[0].Language)
	assert.Equal(t, 3, repos[0].StargazersCount)
	assert.False(t, repos[0].Fork)

	assert.True(t, repos[1].Fork)
	assert.Nil(t, repos[1].Language)
}

func TestListPageNoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	gh := github.NewClient(srv.URL, "").WithHTTPClient(srv.Client())
	repos, err := gh.ListPage(context.Background(), "octo", 1)
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestListPageStatusError(t *testing.T) {
	gh := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})

	_, err := gh.ListPage(context.Background(), "ghost", 1)
	require.Error(t, err)

	var statusErr *github.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Contains(t, statusErr.Error(), "404")
	assert.Contains(t, statusErr.Body, "Not Found")
}

func TestTopics(t *testing.T) {
	gh := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/vnd.github.mercy-preview+json", r.Header.Get("Accept"))
		switch r.URL.Path {
		case "/repos/octo/tagged/topics":
			_, _ = w.Write([]byte(`{"names":["go","cli"]}`))
		case "/repos/octo/untagged/topics":
			_, _ = w.Write([]byte(`{"names":[]}`))
		case "/repos/octo/garbled/topics":
			_, _ = w.Write([]byte(`{"names":`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	got := gh.Topics(ctx, "octo/tagged")
	assert.False(t, got.Degraded())
	assert.Equal(t, []string{"go", "cli"}, got.Value)

	got = gh.Topics(ctx, "octo/untagged")
	assert.False(t, got.Degraded())
	assert.Equal(t, []string{}, got.Value)

	for _, name := range []string{"octo/missing", "octo/garbled"} {
		got = gh.Topics(ctx, name)
		assert.True(t, got.Degraded(), name)
		assert.NotNil(t, got.Value, name)
		assert.Empty(t, got.Value, name)
	}
}

func TestReadme(t *testing.T) {
	text := "# Hello\n\nThis is a fairly long README line that GitHub would wrap when encoding.\n"
	encoded := base64.StdEncoding.EncodeToString([]byte(text))
	wrapped := encoded[:60] + "\n" + encoded[60:] + "\n"

	invalidUTF8 := base64.StdEncoding.EncodeToString([]byte("ok\xff\xfe!"))

	gh := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/octo/good/readme":
			_, _ = w.Write([]byte(`{"content":` + quote(wrapped) + `,"encoding":"base64"}`))
		case "/repos/octo/binary/readme":
			_, _ = w.Write([]byte(`{"content":` + quote(invalidUTF8) + `}`))
		case "/repos/octo/corrupt/readme":
			_, _ = w.Write([]byte(`{"content":"!!!not-base64!!!"}`))
		case "/repos/octo/empty/readme":
			_, _ = w.Write([]byte(`{}`))
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	got := gh.Readme(ctx, "octo/good")
	require.False(t, got.Degraded(), "%v", got.Err)
	assert.Equal(t, text, got.Value)

	got = gh.Readme(ctx, "octo/binary")
	require.False(t, got.Degraded())
	assert.Equal(t, "ok!", got.Value)

	for _, name := range []string{"octo/corrupt", "octo/empty", "octo/missing"} {
		got = gh.Readme(ctx, name)
		assert.True(t, got.Degraded(), name)
		assert.Equal(t, "", got.Value, name)
	}
}

func TestEnrichmentTransportFailureDegrades(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	gh := github.NewClient(url, "")
	ctx := context.Background()

	topics := gh.Topics(ctx, "octo/a")
	assert.True(t, topics.Degraded())
	assert.Equal(t, []string{}, topics.Value)

	readme := gh.Readme(ctx, "octo/a")
	assert.True(t, readme.Degraded())
	assert.Equal(t, "", readme.Value)

	_, err := gh.ListPage(ctx, "octo", 1)
	assert.Error(t, err)
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
