package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"reinocalc/pkg/typebot"

	"github.com/stretchr/testify/require"
)

func TestTypebotRepository_StartChat(t *testing.T) {
	t.Run("returns the session id", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"sessionId":"sess-42"}`))
		}))
		defer server.Close()

		repo := NewTypebotRepository(typebot.NewClient(server.URL, "relatorio-reino"))
		id, err := repo.StartChat(context.Background(), map[string]string{"nome": "Ana"})
		require.NoError(t, err)
		require.Equal(t, "sess-42", id)
	})

	t.Run("wraps client failures", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		repo := NewTypebotRepository(typebot.NewClient(server.URL, "relatorio-reino"))
		_, err := repo.StartChat(context.Background(), nil)
		require.ErrorContains(t, err, "failed to start typebot chat")
	})
}
