package assistant_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/dochazka/internal/assistant"
	"github.com/MrJamesThe3rd/dochazka/internal/entry"
)

func reply(t *testing.T, w http.ResponseWriter, text string) {
	t.Helper()

	resp := map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	}

	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestClient_ParseEntries(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		reply(t, w, `[{"date":"2024-04-02","project":"Website Redesign","hours":4,"type":"Běžná práce"},{"date":"2024-04-02","hours":2,"type":"Lékař"}]`)
	}))
	defer srv.Close()

	c := assistant.NewClient(assistant.Config{APIKey: "secret", Model: "test-model", BaseURL: srv.URL})

	candidates, err := c.ParseEntries(context.Background(), "včera 4h web a 2h lékař",
		time.Date(2024, time.April, 3, 0, 0, 0, 0, time.UTC),
		[]assistant.JobRef{{Code: "WEB-001", Name: "Website Redesign"}})
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	assert.Equal(t, "Website Redesign", *candidates[0].Project)
	assert.InDelta(t, 4, *candidates[0].Hours, 1e-9)
	assert.Nil(t, candidates[1].Project)
	assert.Equal(t, "Lékař", *candidates[1].Type)

	cfg := got["generationConfig"].(map[string]any)
	assert.Equal(t, "application/json", cfg["responseMimeType"])

	contents := got["contents"].([]any)
	prompt := contents[0].(map[string]any)["parts"].([]any)[0].(map[string]any)["text"].(string)
	assert.Contains(t, prompt, "2024-04-03")
	assert.Contains(t, prompt, "Website Redesign (WEB-001)")
}

func TestClient_Transcribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		parts := req["contents"].([]any)[0].(map[string]any)["parts"].([]any)
		inline := parts[0].(map[string]any)["inlineData"].(map[string]any)
		assert.Equal(t, "audio/webm", inline["mimeType"])
		assert.Equal(t, "AQID", inline["data"])

		reply(t, w, "  osm hodin na webu  ")
	}))
	defer srv.Close()

	c := assistant.NewClient(assistant.Config{APIKey: "k", BaseURL: srv.URL})

	text, err := c.Transcribe(context.Background(), []byte{1, 2, 3}, "audio/webm")
	require.NoError(t, err)
	assert.Equal(t, "osm hodin na webu", text)
}

func TestClient_Errors(t *testing.T) {
	t.Run("NotConfigured", func(t *testing.T) {
		c := assistant.NewClient(assistant.Config{})

		_, err := c.Analyze(context.Background(), nil)
		assert.ErrorIs(t, err, assistant.ErrNotConfigured)
		assert.False(t, c.Configured())
	})

	t.Run("UpstreamError", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exceeded"}}`))
		}))
		defer srv.Close()

		c := assistant.NewClient(assistant.Config{APIKey: "k", BaseURL: srv.URL})

		_, err := c.Help(context.Background(), "jak odeslat měsíc?")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})

	t.Run("ContextCancelled", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			reply(t, w, "late")
		}))
		defer srv.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		c := assistant.NewClient(assistant.Config{APIKey: "k", BaseURL: srv.URL})

		_, err := c.Analyze(ctx, []*entry.Entry{{Date: time.Now(), Hours: 8, Type: entry.TypeRegular, Project: "A"}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}
