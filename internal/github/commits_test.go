package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/coltonsr77/uzi-doorman-bot/internal/errors"
	"github.com/coltonsr77/uzi-doorman-bot/internal/models"
)

func newTestClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), token, 5).WithBaseURL(srv.URL)
	require.NoError(t, err)
	return c
}

func TestListCommits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/coltonsr77/Uzi-Doorman-Bot/commits", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"sha": "a1", "commit": map[string]any{"message": "fix bug", "author": map[string]any{"name": "alice"}}},
			{"sha": "b2", "commit": map[string]any{"message": "add feature", "author": map[string]any{"name": "bob"}}},
			{"sha": "c3", "commit": map[string]any{"message": "no name"}, "author": map[string]any{"login": "carol"}},
		})
	})

	c := newTestClient(t, mux, "secret")
	got, err := c.ListCommits(context.Background(), "coltonsr77/Uzi-Doorman-Bot")
	require.NoError(t, err)

	assert.Equal(t, []models.CommitRecord{
		{Message: "fix bug", AuthorName: "alice"},
		{Message: "add feature", AuthorName: "bob"},
		{Message: "no name", AuthorName: "carol"},
	}, got)
}

func TestListCommits_Failures(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		c := newTestClient(t, http.NotFoundHandler(), "")

		_, err := c.ListCommits(context.Background(), "o/missing")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeCommitFetchFailed, apperrors.CodeOf(err))
	})

	t.Run("malformed body", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"not": "a list"`))
		}), "")

		_, err := c.ListCommits(context.Background(), "o/r")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeCommitFetchFailed, apperrors.CodeOf(err))
	})

	t.Run("bad repo identifier", func(t *testing.T) {
		c := newTestClient(t, http.NotFoundHandler(), "")

		_, err := c.ListCommits(context.Background(), "just-a-name")
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeCommitFetchFailed, apperrors.CodeOf(err))
	})
}

func TestSplitRepo(t *testing.T) {
	owner, name, err := SplitRepo(" coltonsr77/Uzi-Doorman-Bot ")
	require.NoError(t, err)
	assert.Equal(t, "coltonsr77", owner)
	assert.Equal(t, "Uzi-Doorman-Bot", name)

	for _, bad := range []string{"", "owner", "/name", "owner/", "a/b/c"} {
		_, _, err := SplitRepo(bad)
		assert.Error(t, err, bad)
	}
}
