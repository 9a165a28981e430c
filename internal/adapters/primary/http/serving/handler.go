package serving

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-promotion-service/internal/core/domain"
	"model-promotion-service/internal/core/services"
)

// contentKind is the closed set of request media types the runtime accepts.
type contentKind int

const (
	contentJSON contentKind = iota
	contentUnsupported
)

func contentKindOf(contentType string) contentKind {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return contentUnsupported
	}
	if mediaType == "application/json" {
		return contentJSON
	}
	return contentUnsupported
}

// invocationRequest is the scoring payload: a 1-D or 2-D numeric feature
// array under "features".
type invocationRequest struct {
	Features json.RawMessage `json:"features"`
}

type Handler struct {
	scoring *services.ScoringService
}

func New(scoring *services.ScoringService) *Handler {
	return &Handler{scoring: scoring}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ping", h.Ping)
	r.POST("/invocations", h.Invocations)
}

// Ping doubles as the lazy warm-up trigger: the first probe loads the model.
func (h *Handler) Ping(c *gin.Context) {
	if !h.scoring.Healthy(c.Request.Context()) {
		c.Status(http.StatusNotFound)
		return
	}
	c.String(http.StatusOK, "")
}

func (h *Handler) Invocations(c *gin.Context) {
	if contentKindOf(c.ContentType()) != contentJSON {
		writeScoringError(c, domain.UnsupportedPayload(nil))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeScoringError(c, domain.CannotReadData(map[string]any{"cause": err.Error()}))
		return
	}
	if len(body) == 0 {
		writeScoringError(c, domain.EmptyData(nil))
		return
	}

	var req invocationRequest
	if err := json.Unmarshal(body, &req); err != nil || len(req.Features) == 0 {
		writeScoringError(c, domain.DataNotSupported(nil))
		return
	}

	batch, err := services.NormalizeFeatures(req.Features)
	if err != nil {
		writeScoringError(c, domain.AsScoringError(err))
		return
	}

	if err := h.scoring.EnsureLoaded(c.Request.Context()); err != nil {
		writeScoringError(c, domain.AsScoringError(err))
		return
	}

	predictions, err := h.scoring.Predict(c.Request.Context(), batch)
	if err != nil {
		writeScoringError(c, domain.AsScoringError(err))
		return
	}

	out, err := json.Marshal(predictions)
	if err != nil {
		writeScoringError(c, domain.CouldNotReturnData(map[string]any{"cause": err.Error()}))
		return
	}

	c.Data(http.StatusOK, "application/json", out)
}

func writeScoringError(c *gin.Context, se *domain.ScoringError) {
	log.WithFields(log.Fields{
		"kind":   string(se.Kind),
		"status": se.StatusCode,
	}).Warn(se.Message)
	c.JSON(se.StatusCode, se.Body())
}
