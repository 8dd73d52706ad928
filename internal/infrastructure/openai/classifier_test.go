package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	gopenai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peerfact/peerfact/internal/domain/entity"
)

func mockCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header %s", r.Header.Get("Authorization"))
		}
		resp := gopenai.ChatCompletionResponse{
			ID:     "chatcmpl-1",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []gopenai.ChatCompletionChoice{
				{Message: gopenai.ChatCompletionMessage{Role: "assistant", Content: content}, FinishReason: "stop"},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestClassifierParsesModelJSON(t *testing.T) {
	srv := mockCompletionServer(t, `{"summary":"The bridge reopened.","label":"Likely True","confidence":0.85}`)
	defer srv.Close()

	c, err := New("test-key", srv.URL, "gpt-4o-mini")
	require.NoError(t, err)

	res, err := c.Analyze(context.Background(), "Officials confirmed the bridge reopened", "")
	require.NoError(t, err)
	assert.Equal(t, entity.LabelLikelyTrue, res.Label)
	assert.Equal(t, "The bridge reopened.", res.Summary)
	assert.Equal(t, 0.85, res.Confidence)
}

func TestClassifierHandlesFencedJSON(t *testing.T) {
	srv := mockCompletionServer(t, "```json\n{\"summary\":\"s\",\"label\":\"unclear\"}\n```")
	defer srv.Close()

	c, err := New("test-key", srv.URL, "")
	require.NoError(t, err)

	res, err := c.Analyze(context.Background(), "some claim", "")
	require.NoError(t, err)
	assert.Equal(t, entity.LabelUnclear, res.Label)
	assert.Equal(t, 0.7, res.Confidence) // default when the model omits it
}

func TestClassifierMalformedReplyIsAnError(t *testing.T) {
	srv := mockCompletionServer(t, "definitely not json")
	defer srv.Close()

	c, err := New("test-key", srv.URL, "")
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), "some claim", "")
	assert.Error(t, err)
}

func TestClassifierUnknownLabelIsAnError(t *testing.T) {
	srv := mockCompletionServer(t, `{"summary":"s","label":"Certainly True"}`)
	defer srv.Close()

	c, err := New("test-key", srv.URL, "")
	require.NoError(t, err)

	_, err = c.Analyze(context.Background(), "some claim", "")
	assert.Error(t, err)
}

func TestClassifierRequiresAPIKey(t *testing.T) {
	_, err := New("", "", "")
	assert.Error(t, err)
}
