package serving

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

	"model-promotion-service/internal/core/services"
	"model-promotion-service/internal/testutil"
)

var errFetch = errors.New("object not found")

const sumModel = `{"model_type":"linear","weights":[1,1,1],"intercept":0}`

func setupRouter(store *testutil.MockArtifactStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	scoring := services.NewScoringService(store, "s3://models/model.json")
	r := gin.New()
	New(scoring).RegisterRoutes(r)
	return r
}

func invoke(r *gin.Engine, contentType, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/invocations", strings.NewReader(body))
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestInvocations_Success(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Fetch", mock.Anything, "s3://models/model.json").Return([]byte(sumModel), nil)
	r := setupRouter(store)

	w := invoke(r, "application/json", `{"features":[[1,2,3],[4,5,6]]}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var predictions []float64
	_ = json.Unmarshal(w.Body.Bytes(), &predictions)
	assert.Equal(t, []float64{6, 15}, predictions)
}

func TestInvocations_SingleRow(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Fetch", mock.Anything, "s3://models/model.json").Return([]byte(sumModel), nil)
	r := setupRouter(store)

	w := invoke(r, "application/json; charset=utf-8", `{"features":[1,2,3]}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var predictions []float64
	_ = json.Unmarshal(w.Body.Bytes(), &predictions)
	assert.Equal(t, []float64{6}, predictions)
}

func TestInvocations_ColdStartLoadsOnce(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Fetch", mock.Anything, "s3://models/model.json").Return([]byte(sumModel), nil).Once()
	r := setupRouter(store)

	first := invoke(r, "application/json", `{"features":[1,2,3]}`)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "[6]", first.Body.String())

	second := invoke(r, "application/json", `{"features":[4,5,6]}`)
	assert.Equal(t, http.StatusOK, second.Code)

	store.AssertExpectations(t)
}

func TestInvocations_UnsupportedContentType(t *testing.T) {
	r := setupRouter(new(testutil.MockArtifactStore))

	w := invoke(r, "text/csv", "1,2,3")

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "Model supports JSON inputs only", resp["message"])
}

func TestInvocations_EmptyBody(t *testing.T) {
	r := setupRouter(new(testutil.MockArtifactStore))

	w := invoke(r, "application/json", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "Received empty data file", resp["message"])
}

func TestInvocations_BadJSON(t *testing.T) {
	r := setupRouter(new(testutil.MockArtifactStore))

	w := invoke(r, "application/json", `{"features": not json`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "Model does not support supplied data schema", resp["message"])
}

func TestInvocations_MissingFeatures(t *testing.T) {
	r := setupRouter(new(testutil.MockArtifactStore))

	w := invoke(r, "application/json", `{"inputs":[[1,2,3]]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInvocations_ModelLoadFailure(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Fetch", mock.Anything, "s3://models/model.json").Return(nil, errFetch)
	r := setupRouter(store)

	w := invoke(r, "application/json", `{"features":[[1,2,3]]}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "Model could not be loaded", resp["message"])
}

func TestPing_WarmsUp(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Fetch", mock.Anything, "s3://models/model.json").Return([]byte(sumModel), nil).Once()
	r := setupRouter(store)

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	store.AssertExpectations(t)
}

func TestPing_Degraded(t *testing.T) {
	store := new(testutil.MockArtifactStore)
	store.On("Fetch", mock.Anything, "s3://models/model.json").Return(nil, errFetch)
	r := setupRouter(store)

	req, _ := http.NewRequest("GET", "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
