package http

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	jsoniter "github.com/json-iterator/go"

	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/models"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/pricing"
	"github.com/Meesho/BharatMLStack/price-inferflow/internal/errors"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/logger"
	"github.com/Meesho/BharatMLStack/price-inferflow/pkg/middleware"
)

const (
	errNoData      = "No data provided"
	errInvalidBody = "Invalid request body: "
)

// requestJSON keeps numbers as json.Number so integer fields are not rounded through
// float64 before validation.
var requestJSON = jsoniter.Config{EscapeHTML: true, UseNumber: true}.Froze()

type Predictor interface {
	Predict(raw models.RawSpec) (*models.Prediction, error)
	Info() pricing.Info
}

type Handler struct {
	predictor           Predictor
	errorLoggingPercent int
}

func NewHandler(predictor Predictor, errorLoggingPercent int) *Handler {
	return &Handler{predictor: predictor, errorLoggingPercent: errorLoggingPercent}
}

func (h *Handler) Predict(c *gin.Context) {
	raw, err := decodeSpec(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	prediction, err := h.predictor.Predict(raw)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, prediction)
}

func (h *Handler) Policy(c *gin.Context) {
	c.JSON(http.StatusOK, h.predictor.Info())
}

func decodeSpec(c *gin.Context) (models.RawSpec, error) {
	body, err := c.GetRawData()
	if err != nil {
		return nil, &errors.BadRequestError{ErrorMsg: errInvalidBody + err.Error()}
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, &errors.BadRequestError{ErrorMsg: errNoData}
	}

	var decoded interface{}
	if err := requestJSON.Unmarshal(body, &decoded); err != nil {
		return nil, &errors.ParsingError{ErrorMsg: errInvalidBody + err.Error()}
	}
	object, ok := decoded.(map[string]interface{})
	if !ok {
		return nil, &errors.BadRequestError{ErrorMsg: fmt.Sprintf("%sexpected a JSON object, got %T", errInvalidBody, decoded)}
	}
	if len(object) == 0 {
		return nil, &errors.BadRequestError{ErrorMsg: errNoData}
	}
	return models.RawSpec(object), nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.IsClientError(err) {
		logger.PercentError("Rejected prediction request", err, c.GetString(middleware.ContextRequestID), h.errorLoggingPercent)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	logger.Error(fmt.Sprintf("Prediction failed on %s", c.Request.URL.Path), err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
