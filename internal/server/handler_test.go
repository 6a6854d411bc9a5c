package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/decisionpipe/decisionpipe/internal/common"
	"github.com/decisionpipe/decisionpipe/internal/llm"
	"github.com/decisionpipe/decisionpipe/internal/pipeline"
)

type fakeClient struct {
	response string
}

func (f *fakeClient) Complete(ctx context.Context, req llm.Request) (string, error) {
	return f.response, nil
}

func newTestRouter(t *testing.T, response string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pipe := pipeline.New(common.DefaultPipelineConfig(), &fakeClient{response: response}, nil, logger)
	r := gin.New()
	NewHandler(pipe, logger).RegisterRoutes(r)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler(t *testing.T) {
	t.Run("Should report healthy", func(t *testing.T) {
		r := newTestRouter(t, `{"candidates":[]}`)
		rec := doJSON(r, http.MethodGet, "/healthz", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("Should extract decisions from a memo", func(t *testing.T) {
		r := newTestRouter(t, `{"candidates":[{"decision":"Launch the beta by Q3 2025","evidence":"launch the beta by Q3 2025"}]}`)
		rec := doJSON(r, http.MethodPost, "/v1/extract",
			`{"memoText":"We will launch the beta by Q3 2025.","mode":"extract"}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Decisions []map[string]any `json:"decisions"`
			Meta      map[string]any   `json:"meta"`
			Error     any              `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Nil(t, body.Error)
		require.Len(t, body.Decisions, 1)
		assert.Equal(t, "Launch the beta by Q3 2025", body.Decisions[0]["decision"])
		assert.Equal(t, "done", body.Meta["stage"])
	})

	t.Run("Should keep internal scores out of the response", func(t *testing.T) {
		r := newTestRouter(t, `{"candidates":[{"decision":"Launch the beta","evidence":"launch the beta"}]}`)
		rec := doJSON(r, http.MethodPost, "/v1/extract", `{"memoText":"We will launch the beta."}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "qualityScore")
		assert.NotContains(t, rec.Body.String(), "QualityScore")
	})

	t.Run("Should reject an unknown mode", func(t *testing.T) {
		r := newTestRouter(t, `{"candidates":[]}`)
		rec := doJSON(r, http.MethodPost, "/v1/extract", `{"memoText":"hello","mode":"translate"}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Malformed request body")
	})

	t.Run("Should reject malformed JSON", func(t *testing.T) {
		r := newTestRouter(t, `{"candidates":[]}`)
		rec := doJSON(r, http.MethodPost, "/v1/extract", `{"memoText": `)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Should map no-input to a 400 with meta attached", func(t *testing.T) {
		r := newTestRouter(t, `{"candidates":[]}`)
		rec := doJSON(r, http.MethodPost, "/v1/extract", `{"memoText":"   "}`)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var body struct {
			Meta  map[string]any `json:"meta"`
			Error struct {
				Message string `json:"message"`
				ErrorID string `json:"errorId"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "No readable text was found in the provided input.", body.Error.Message)
		assert.NotEmpty(t, body.Error.ErrorID)
		assert.Equal(t, "error", body.Meta["stage"])
	})

	t.Run("Should accept documents with pre-split pages", func(t *testing.T) {
		r := newTestRouter(t, `{"candidates":[{"decision":"Migrate billing","evidence":"migrate billing"}]}`)
		rec := doJSON(r, http.MethodPost, "/v1/extract",
			`{"documents":[{"fileName":"notes.txt","pages":[{"pageNumber":1,"text":"migrate billing"}]}]}`)

		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Decisions []struct {
				Source struct {
					FileName string `json:"fileName"`
					Page     int    `json:"page"`
				} `json:"source"`
			} `json:"decisions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Decisions, 1)
		assert.Equal(t, "notes.txt", body.Decisions[0].Source.FileName)
		assert.Equal(t, 1, body.Decisions[0].Source.Page)
	})
}
