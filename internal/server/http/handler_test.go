package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/models"
	"github.com/Meesho/BharatMLStack/price-inferflow/handlers/pricing"
	"github.com/Meesho/BharatMLStack/price-inferflow/internal/errors"
)

type mockPredictor struct {
	mock.Mock
}

func (m *mockPredictor) Predict(raw models.RawSpec) (*models.Prediction, error) {
	args := m.Called(raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Prediction), args.Error(1)
}

func (m *mockPredictor) Info() pricing.Info {
	return m.Called().Get(0).(pricing.Info)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)
	return w
}

const appleBody = `{"Brand":"Apple","Screen Size (in)":6.1,"Front Camera (MP)":12,"Back Camera (MP)":48,
	"Battery (mAh)":3349,"RAM (GB)":6,"ROM (GB)":128}`

func TestPredictRoutes(t *testing.T) {
	for _, path := range []string{"/predict", "/api/v1/predict"} {
		t.Run(path, func(t *testing.T) {
			predictor := &mockPredictor{}
			predictor.On("Predict", mock.MatchedBy(func(raw models.RawSpec) bool {
				return raw[models.FieldBrand] == "Apple" && raw[models.FieldRAM] == json.Number("6")
			})).Return(&models.Prediction{Price: 74999.5, Segment: "premium"}, nil)

			w := serve(NewRouter(predictor, Options{}), http.MethodPost, path, appleBody)
			assert.Equal(t, http.StatusOK, w.Code)
			assert.JSONEq(t, `{"price":74999.5,"segment":"premium"}`, w.Body.String())
			predictor.AssertExpectations(t)
		})
	}
}

func TestPredictEmptyBodies(t *testing.T) {
	engine := NewRouter(&mockPredictor{}, Options{})
	for _, body := range []string{"", "  ", "null", "{}"} {
		w := serve(engine, http.MethodPost, "/predict", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.JSONEq(t, `{"error":"No data provided"}`, w.Body.String())
	}
}

func TestPredictInvalidBodies(t *testing.T) {
	engine := NewRouter(&mockPredictor{}, Options{})
	for _, body := range []string{"[1,2]", `"Apple"`, "{not json"} {
		w := serve(engine, http.MethodPost, "/predict", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.Contains(t, w.Body.String(), "Invalid request body")
	}
}

func TestDecodeSpecErrorTypes(t *testing.T) {
	tests := []struct {
		body string
		kind string
	}{
		{"{not json", "parsing"},
		{`{"Brand":`, "parsing"},
		{"[1,2]", "bad-request"},
		{"{}", "bad-request"},
	}
	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(tt.body))

			_, err := decodeSpec(c)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.Type(err))
			assert.True(t, errors.IsClientError(err))
		})
	}
}

func TestPredictErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{
			"missing fields",
			&errors.MissingFieldsError{Fields: []string{models.FieldRAM}},
			http.StatusBadRequest,
			`{"error":"Missing required fields: RAM (GB)"}`,
		},
		{
			"invalid input",
			&errors.InvalidInputError{Field: models.FieldRAM},
			http.StatusBadRequest,
			`{"error":"Invalid numeric value provided for field: RAM (GB)"}`,
		},
		{
			"unknown segment",
			&errors.UnknownSegmentError{Segment: "flagship"},
			http.StatusInternalServerError,
			`{"error":"no model/scaler registered for segment \"flagship\""}`,
		},
		{
			"prediction",
			&errors.PredictionError{ErrorMsg: "non-finite price"},
			http.StatusInternalServerError,
			`{"error":"non-finite price"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			predictor := &mockPredictor{}
			predictor.On("Predict", mock.Anything).Return(nil, tt.err)

			w := serve(NewRouter(predictor, Options{}), http.MethodPost, "/api/v1/predict", appleBody)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, tt.body, w.Body.String())
		})
	}
}

func TestHealth(t *testing.T) {
	w := serve(NewRouter(&mockPredictor{}, Options{}), http.MethodGet, "/health/self", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"true"}`, w.Body.String())
}

func TestPolicy(t *testing.T) {
	predictor := &mockPredictor{}
	predictor.On("Info").Return(pricing.Info{Policy: "two_level", Segments: []string{"budget", "mid", "premium"}, SchemaColumns: 42})

	w := serve(NewRouter(predictor, Options{}), http.MethodGet, "/api/v1/policy", "")
	require.Equal(t, http.StatusOK, w.Code)

	var info pricing.Info
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "two_level", info.Policy)
	assert.Equal(t, 42, info.SchemaColumns)
}

func TestCORS(t *testing.T) {
	engine := NewRouter(&mockPredictor{}, Options{AllowedOrigins: "https://shop.example.com"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
	req.Header.Set("Origin", "https://shop.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	engine.ServeHTTP(w, req)
	assert.Equal(t, "https://shop.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodOptions, "/predict", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSConfig(t *testing.T) {
	assert.True(t, corsConfig("*").AllowAllOrigins)
	assert.True(t, corsConfig("").AllowAllOrigins)
	config := corsConfig("https://a.example.com, https://b.example.com")
	assert.False(t, config.AllowAllOrigins)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, config.AllowOrigins)
}
