package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/stitts-dev/futsal-ai/internal/api"
	"github.com/stitts-dev/futsal-ai/internal/models"
	"github.com/stitts-dev/futsal-ai/internal/services"
	"github.com/stitts-dev/futsal-ai/pkg/config"
	"github.com/stitts-dev/futsal-ai/pkg/logger"
	"github.com/stitts-dev/futsal-ai/pkg/metrics"
)

const (
	playerAnalysis = `ANÁLISIS GENERAL:
Ala rápido con buena capacidad de salto.

FORTALEZAS:
- Velocidad en 30 metros
- Salto vertical

ÁREAS DE MEJORA:
- Resistencia aeróbica

RECOMENDACIONES DE ENTRENAMIENTO:
- Intervalos de alta intensidad

PERFIL DE RENDIMIENTO:
Explosivo en transiciones.`

	teamAnalysis = `ANÁLISIS GENERAL:
Equipo joven y dinámico.

PUNTOS FUERTES:
- Transiciones rápidas

ÁREAS DE MEJORA:
- Poca rotación

RECOMENDACIONES TÁCTICAS:
- Presión alta

SUGERENCIAS DE ENTRENAMIENTOS:
- Circuitos de fuerza

AJUSTES EN LA ALINEACIÓN:
Alternar el pívot en el segundo tiempo.`
)

type fixedClassifier int

func (f fixedClassifier) Predict(models.FeatureVector) (int, error) { return int(f), nil }

type brokenClassifier struct{}

func (brokenClassifier) Predict(models.FeatureVector) (int, error) {
	return 0, errors.New("scaler mismatch")
}

// stubLLM answers player and team instructions with canned text.
type stubLLM struct {
	configured bool
	calls      atomic.Int32
}

func (s *stubLLM) IsConfigured() bool { return s.configured }

func (s *stubLLM) Complete(_ context.Context, systemInstruction, _ string) (*services.Completion, error) {
	s.calls.Add(1)
	if strings.Contains(systemInstruction, "PUNTOS FUERTES:") {
		return &services.Completion{Text: teamAnalysis}, nil
	}
	return &services.Completion{Text: playerAnalysis}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

type RouterTestSuite struct {
	suite.Suite
	cfg    *config.Config
	llm    *stubLLM
	router *gin.Engine
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
}

func (s *RouterTestSuite) SetupTest() {
	s.cfg = &config.Config{
		MaxContentLength: 64 << 10,
		RequestTimeout:   5 * time.Second,
		CorsOrigins:      []string{"http://localhost:5173"},
	}
	s.llm = &stubLLM{configured: true}
	s.router = s.buildRouter(fixedClassifier(0), fixedClassifier(0), s.llm, nil)
}

func (s *RouterTestSuite) buildRouter(positions, physical services.Classifier, llm services.LLMClient, cache *services.CacheService) *gin.Engine {
	log := logger.NewTestLogger()
	recorder := metrics.NewRecorder()
	engine := services.NewAnalysisEngine(positions, physical, llm, services.NewPromptBuilder(log), recorder, log, 2)

	return api.NewRouter(api.Dependencies{
		Config:    s.cfg,
		Engine:    engine,
		Positions: positions,
		Physical:  physical,
		LLM:       llm,
		Cache:     cache,
		Usage:     services.NewUsageTracker(60, 0, log),
		Metrics:   recorder,
		Logger:    log,
	})
}

func (s *RouterTestSuite) do(router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func player(name string) map[string]interface{} {
	return map[string]interface{}{
		"name":               name,
		"age":                22,
		"weight":             70,
		"height":             1.75,
		"bmi":                22.9,
		"highJump":           0.45,
		"rightUnipodalJump":  1.8,
		"leftUnipodalJump":   1.75,
		"bipodalJump":        2.1,
		"thirtyMetersTime":   4.3,
		"thousandMetersTime": 200,
	}
}

func (s *RouterTestSuite) TestAnalyzePlayer_Success() {
	w, env := s.do(s.router, http.MethodPost, "/api/v1/analyze", player("Ana"))

	s.Equal(http.StatusOK, w.Code)
	s.True(env.Success)

	var result models.AnalysisResult
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.True(result.Success)
	s.Equal("Ala rápido con buena capacidad de salto.", result.GeneralAnalysis)
	s.Equal([]string{"Velocidad en 30 metros", "Salto vertical"}, result.Strengths)
	s.Equal("Perfil para posición 'Ala'", result.PositionName)
	s.Equal("Explosivo en transiciones.", result.PerformanceProfile)
	s.NotEmpty(w.Header().Get("X-Request-ID"))
}

func (s *RouterTestSuite) TestAnalyzePlayer_MissingField() {
	body := player("Ana")
	delete(body, "bmi")
	body["age"] = "veinte"

	w, env := s.do(s.router, http.MethodPost, "/api/v1/analyze", body)

	s.Equal(http.StatusBadRequest, w.Code)
	s.False(env.Success)
	s.Equal("VALIDATION_ERROR", env.Error.Code)
	s.Equal("Campo requerido no encontrado: 'bmi'", env.Error.Fields["bmi"])
	s.Equal("Formato inválido para el campo: 'age'", env.Error.Fields["age"])
	s.Zero(s.llm.calls.Load())
}

func (s *RouterTestSuite) TestAnalyzePlayer_NoRangeCheck() {
	body := player("Ana")
	body["height"] = 2.5

	w, _ := s.do(s.router, http.MethodPost, "/api/v1/analyze", body)

	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterTestSuite) TestAnalyzePlayer_InvalidJSON() {
	w, env := s.do(s.router, http.MethodPost, "/api/v1/analyze", "{not json")

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("Se requiere JSON", env.Error.Message)
}

func (s *RouterTestSuite) TestAnalyzePlayer_NotConfigured() {
	router := s.buildRouter(fixedClassifier(1), fixedClassifier(3), &stubLLM{}, nil)

	w, env := s.do(router, http.MethodPost, "/api/v1/analyze", player("Ana"))

	s.Equal(http.StatusOK, w.Code)
	var result models.AnalysisResult
	s.Require().NoError(json.Unmarshal(env.Data, &result))
	s.False(result.Success)
	s.Equal(services.NotConfiguredMessage, result.Message)
	s.Equal("Perfil para posición 'Pívot'", result.PositionName)
}

func (s *RouterTestSuite) TestAnalyzeTeam() {
	invalid := player("Bea")
	delete(invalid, "weight")

	body := map[string]interface{}{
		"teamName": "Los Halcones",
		"players":  []interface{}{player("Ana"), invalid, player("Caro")},
	}
	w, env := s.do(s.router, http.MethodPost, "/api/v1/team/analyze", body)

	s.Equal(http.StatusOK, w.Code)
	var report models.PlayerBatchReport
	s.Require().NoError(json.Unmarshal(env.Data, &report))
	s.Equal("Los Halcones", report.TeamName)
	s.Equal(3, report.TotalPlayers)
	s.Equal(2, report.ProcessedPlayers)
	s.Equal(1, report.FailedPlayers)
	s.Require().Len(report.Errors, 1)
	s.Equal(1, report.Errors[0].PlayerIndex)
	s.Equal("Bea", report.Errors[0].PlayerName)
	s.Require().NotNil(report.TeamAnalysis)
	s.Equal([]string{"Transiciones rápidas"}, report.TeamAnalysis.TeamStrengths)
	s.Equal(int32(3), s.llm.calls.Load())
}

func (s *RouterTestSuite) TestAnalyzeTeam_InvalidBody() {
	for _, body := range []string{`{"teamName":"x"}`, `{"players":"Ana"}`, `{"players":null}`} {
		w, env := s.do(s.router, http.MethodPost, "/api/v1/team/analyze", body)

		s.Equal(http.StatusBadRequest, w.Code, body)
		s.Equal("Formato inválido. Se espera un objeto JSON con una lista de jugadores en 'players'", env.Error.Message, body)
	}
}

func (s *RouterTestSuite) TestAnalyzeTeam_Empty() {
	w, env := s.do(s.router, http.MethodPost, "/api/v1/team/analyze", map[string]interface{}{"players": []interface{}{}})

	s.Equal(http.StatusOK, w.Code)
	var report models.PlayerBatchReport
	s.Require().NoError(json.Unmarshal(env.Data, &report))
	s.Equal(models.DefaultTeamName, report.TeamName)
	s.Zero(report.TotalPlayers)
	s.Nil(report.TeamAnalysis)
	s.Zero(s.llm.calls.Load())
}

func (s *RouterTestSuite) TestPredictPosition_RangeValidation() {
	body := player("Ana")
	body["height"] = 2.5

	w, env := s.do(s.router, http.MethodPost, "/api/v1/predict-position", body)

	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("El valor debe ser menor o igual a 2.2", env.Error.Fields["height"])
}

func (s *RouterTestSuite) TestPredictPosition() {
	w, env := s.do(s.router, http.MethodPost, "/api/v1/predict-position", player("Ana"))

	s.Equal(http.StatusOK, w.Code)
	var prediction models.PositionPrediction
	s.Require().NoError(json.Unmarshal(env.Data, &prediction))
	s.Equal(models.PositionWinger, prediction.ClusterID)
	s.Equal(1.75, prediction.Features["height"])
}

func (s *RouterTestSuite) TestPredictPhysical() {
	w, env := s.do(s.router, http.MethodPost, "/api/v1/predict-physical", player("Ana"))

	s.Equal(http.StatusOK, w.Code)
	var prediction models.PhysicalPrediction
	s.Require().NoError(json.Unmarshal(env.Data, &prediction))
	s.Equal(models.PhysicalExplosive, prediction.ClusterID)
	s.Contains(prediction.Strengths, "Salto vertical (>60cm)")
	s.NotEmpty(prediction.SpecificRecommendations)
}

func (s *RouterTestSuite) TestTeamPredictions() {
	invalid := player("Bea")
	invalid["age"] = 90

	body := map[string]interface{}{"players": []interface{}{player("Ana"), invalid}}

	for _, path := range []string{"/api/v1/team/predict-positions", "/api/v1/team/predict-physical"} {
		w, env := s.do(s.router, http.MethodPost, path, body)

		s.Equal(http.StatusOK, w.Code, path)
		var report models.PredictionBatchReport
		s.Require().NoError(json.Unmarshal(env.Data, &report))
		s.Equal(1, report.ProcessedPlayers, path)
		s.Equal(1, report.FailedPlayers, path)
		s.Equal(1, report.Errors[0].PlayerIndex, path)
	}
	s.Zero(s.llm.calls.Load())
}

func (s *RouterTestSuite) TestFullRecommendations() {
	w, env := s.do(s.router, http.MethodPost, "/api/v1/full-recommendations", player("Ana"))

	s.Equal(http.StatusOK, w.Code)
	var full models.FullRecommendations
	s.Require().NoError(json.Unmarshal(env.Data, &full))
	s.Equal(models.PositionWinger, full.Position.ClusterID)
	s.Equal("Maximizar capacidad de desborde en velocidad", full.SpecificRecommendations[0])
	s.Len(full.Features, models.FeatureCount)
}

func (s *RouterTestSuite) TestFullRecommendations_ClassificationError() {
	router := s.buildRouter(fixedClassifier(0), brokenClassifier{}, s.llm, nil)

	w, env := s.do(router, http.MethodPost, "/api/v1/full-recommendations", player("Ana"))

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("CLASSIFICATION_ERROR", env.Error.Code)
}

func (s *RouterTestSuite) TestBodyTooLarge() {
	s.cfg.MaxContentLength = 64
	router := s.buildRouter(fixedClassifier(0), fixedClassifier(0), s.llm, nil)

	w, env := s.do(router, http.MethodPost, "/api/v1/analyze", player("Ana"))

	s.Equal(http.StatusRequestEntityTooLarge, w.Code)
	s.Equal("PAYLOAD_TOO_LARGE", env.Error.Code)
}

func (s *RouterTestSuite) TestNotFound() {
	w, env := s.do(s.router, http.MethodGet, "/api/v1/nothing", nil)

	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("NOT_FOUND", env.Error.Code)
}

func (s *RouterTestSuite) TestHealth_DegradedWithoutLLMKey() {
	router := s.buildRouter(fixedClassifier(0), fixedClassifier(0), &stubLLM{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	s.Equal(http.StatusOK, w.Code)
	var health map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &health))
	s.Equal("degraded", health["status"])
	checks := health["checks"].(map[string]interface{})
	s.Equal("disabled", checks["redis"].(map[string]interface{})["status"])
	s.Equal("degraded", checks["llm"].(map[string]interface{})["status"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	s.Equal(http.StatusOK, w.Code)
}

func (s *RouterTestSuite) TestReady_RedisDown() {
	mr := miniredis.RunT(s.T())
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	router := s.buildRouter(fixedClassifier(0), fixedClassifier(0), s.llm, services.NewCacheService(client, logger.NewTestLogger()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	s.Equal(http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	var health map[string]interface{}
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &health))
	redisCheck := health["checks"].(map[string]interface{})["redis"].(map[string]interface{})
	s.Contains([]interface{}{"healthy", "degraded"}, redisCheck["status"])

	mr.Close()
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *RouterTestSuite) TestMetrics() {
	s.do(s.router, http.MethodPost, "/api/v1/predict-position", player("Ana"))

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `futsal_ai_http_requests_total{method="POST",route="/api/v1/predict-position",status="200"} 1`)
}
