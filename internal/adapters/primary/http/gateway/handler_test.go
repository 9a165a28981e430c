package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"model-promotion-service/internal/testutil"
)

func setupRouter(invoker *testutil.MockEndpointInvoker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	New(invoker).RegisterRoutes(r)
	return r
}

func TestInference_ForwardsVerbatim(t *testing.T) {
	invoker := new(testutil.MockEndpointInvoker)
	body := `{"features":[[1,2,3]]}`
	invoker.On("Invoke", mock.Anything, []byte(body)).Return([]byte(`[6]`), nil)
	r := setupRouter(invoker)

	req, _ := http.NewRequest("POST", "/inference", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Inference API Response", w.Header().Get("x-custom-header"))

	var predictions []float64
	_ = json.Unmarshal(w.Body.Bytes(), &predictions)
	assert.Equal(t, []float64{6}, predictions)
	invoker.AssertExpectations(t)
}

func TestInference_BackendFailure(t *testing.T) {
	invoker := new(testutil.MockEndpointInvoker)
	invoker.On("Invoke", mock.Anything, mock.Anything).Return(nil, errors.New("endpoint returned status 500"))
	r := setupRouter(invoker)

	req, _ := http.NewRequest("POST", "/inference", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "Inference API Response", w.Header().Get("x-custom-header"))
}

func TestUnknownRoute_NotFoundWithHeader(t *testing.T) {
	r := setupRouter(new(testutil.MockEndpointInvoker))

	req, _ := http.NewRequest("GET", "/anything", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Inference API Response", w.Header().Get("x-custom-header"))
	assert.Empty(t, w.Body.String())
}

func TestUnknownMethod_NotFound(t *testing.T) {
	r := setupRouter(new(testutil.MockEndpointInvoker))

	req, _ := http.NewRequest("GET", "/inference", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Inference API Response", w.Header().Get("x-custom-header"))
	assert.Empty(t, w.Body.String())
}
