package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/decisionpipe/decisionpipe/internal/common"
	"github.com/decisionpipe/decisionpipe/internal/entity"
	"github.com/decisionpipe/decisionpipe/internal/pipeline"
)

// Handler exposes the pipeline over HTTP.
type Handler struct {
	pipe   *pipeline.Pipeline
	logger *slog.Logger
}

func NewHandler(pipe *pipeline.Pipeline, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{pipe: pipe, logger: logger}
}

// RegisterRoutes mounts the API on the given engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.healthz)
	r.POST("/v1/extract", h.extract)
}

type documentPayload struct {
	FileName string                `json:"fileName"`
	Pages    []entity.DocumentPage `json:"pages"`
	Data     []byte                `json:"data"` // base64 PDF bytes on the wire
}

type extractRequest struct {
	MemoText  string            `json:"memoText"`
	Documents []documentPayload `json:"documents"`
	Mode      string            `json:"mode" binding:"omitempty,oneof=extract summarize extract+summarize"`
}

func (h *Handler) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) extract(c *gin.Context) {
	var body extractRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{"message": "Malformed request body: " + err.Error()},
		})
		return
	}

	docs := make([]entity.Document, 0, len(body.Documents))
	for _, d := range body.Documents {
		docs = append(docs, entity.Document{
			FileName: d.FileName,
			Pages:    d.Pages,
			Data:     d.Data,
		})
	}

	resp, err := h.pipe.Run(c.Request.Context(), pipeline.Request{
		MemoText:  body.MemoText,
		Documents: docs,
		Mode:      pipeline.Mode(body.Mode),
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, common.ErrNoInput) || errors.Is(err, common.ErrInvalidInput) {
			status = http.StatusBadRequest
		}
		// resp carries meta and the opaque error payload; internals stay in logs.
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, resp)
}
