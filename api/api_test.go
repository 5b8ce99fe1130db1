package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"reinocalc/internal/app"
	"reinocalc/internal/debounce"
	"reinocalc/internal/feetable"
	"reinocalc/internal/ledger"
	"reinocalc/internal/logger"
	"reinocalc/internal/metrics"
	"reinocalc/internal/readiness"
	"reinocalc/internal/repository"
	"reinocalc/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testJwtSecret = "super-secret-jwt-token-with-at-least-32-characters"

type testServer struct {
	engine  *gin.Engine
	handler ApiHandler
	clock   *debounce.ManualClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m, err := metrics.New("reino_api_test")
	require.NoError(t, err)
	fees := feetable.MustLoad()
	clock := debounce.NewManualClock()

	deps := app.Dependencies{
		Fees:    fees,
		Metrics: m,
		Clock:   clock,
		Log:     logger.Nop(),
	}
	handler := ApiHandler{
		Fees:           fees,
		SessionService: service.NewSessionService(deps, time.Hour),
		SubmissionService: service.NewSubmissionService(
			repository.NewMemorySubmissionRepository(logger.Nop()),
			nil,
			nil,
			"",
			m.SubmissionsTotal,
			logger.Nop(),
		),
		Metrics:        m,
		Log:            logger.Nop(),
		JwtDecodeToken: testJwtSecret,
	}

	return &testServer{
		engine:  handler.InitializeRouterEngine(),
		handler: handler,
		clock:   clock,
	}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (s *testServer) newSession(t *testing.T) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	return decode[sessionResponse](t, w).SessionID
}

func signedToken(t *testing.T, subject, email string, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, SupabaseClaims{
		Email: email,
		Role:  "authenticated",
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			ExpiresAt: expiresAt.Unix(),
		},
	})
	s, err := token.SignedString([]byte(testJwtSecret))
	require.NoError(t, err)
	return s
}

func TestApi_sessions(t *testing.T) {
	t.Run("create and read", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		w := s.do(t, http.MethodGet, "/sessions/"+id, nil)
		require.Equal(t, http.StatusOK, w.Code)
		out := decode[sessionResponse](t, w)
		require.Equal(t, id, out.SessionID)
		require.Equal(t, 0, out.View.Step.Current)
		require.Empty(t, out.View.Rows)
	})

	t.Run("unknown and malformed ids", func(t *testing.T) {
		s := newTestServer(t)

		w := s.do(t, http.MethodGet, "/sessions/"+uuid.NewString(), nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		w = s.do(t, http.MethodGet, "/sessions/not-a-uuid", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("delete", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		w := s.do(t, http.MethodDelete, "/sessions/"+id, nil)
		require.Equal(t, http.StatusNoContent, w.Code)

		w = s.do(t, http.MethodGet, "/sessions/"+id, nil)
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestApi_patrimony(t *testing.T) {
	t.Run("change applies immediately", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		w := s.do(t, http.MethodPost, "/sessions/"+id+"/patrimony", setPatrimonyRequest{Value: "R$ 100.000,00", Mode: "change"})
		require.Equal(t, http.StatusOK, w.Code)
		out := decode[sessionResponse](t, w)
		require.True(t, decimal.NewFromInt(100000).Equal(out.View.Patrimony))
		require.Equal(t, "100.000,00", out.View.PatrimonyDisplay)
	})

	t.Run("input is masked and pending", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		w := s.do(t, http.MethodPost, "/sessions/"+id+"/patrimony", setPatrimonyRequest{Value: "100000", Mode: "input"})
		require.Equal(t, http.StatusAccepted, w.Code)
		pending := decode[setPatrimonyPendingResponse](t, w)
		require.Equal(t, "1.000,00", pending.Display)
		require.True(t, pending.Pending)

		s.clock.Fire()

		w = s.do(t, http.MethodGet, "/sessions/"+id, nil)
		out := decode[sessionResponse](t, w)
		require.True(t, decimal.NewFromInt(1000).Equal(out.View.Patrimony))
	})

	t.Run("unknown mode", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		w := s.do(t, http.MethodPost, "/sessions/"+id+"/patrimony", setPatrimonyRequest{Value: "1", Mode: "paste"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("input events", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		w := s.do(t, http.MethodPost, "/sessions/"+id+"/events", inputEventRequest{Type: "blur"})
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodPost, "/sessions/"+id+"/events", inputEventRequest{Type: "input"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestApi_allocations(t *testing.T) {
	t.Run("over-allocation is clamped with a warning", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)
		s.do(t, http.MethodPost, "/sessions/"+id+"/patrimony", setPatrimonyRequest{Value: "100.000,00", Mode: "change"})
		s.do(t, http.MethodPut, "/sessions/"+id+"/selection", setSelectionRequest{Category: "Renda Fixa", Product: "CDB", Selected: true})
		s.do(t, http.MethodPut, "/sessions/"+id+"/selection", setSelectionRequest{Category: "Outros", Product: "Poupança", Selected: true})

		v := decimal.NewFromInt(60000)
		w := s.do(t, http.MethodPut, "/sessions/"+id+"/allocations", setAllocationRequest{Category: "Renda Fixa", Product: "CDB", Value: &v})
		require.Equal(t, http.StatusOK, w.Code)

		w = s.do(t, http.MethodPut, "/sessions/"+id+"/allocations", setAllocationRequest{Category: "Outros", Product: "Poupança", Value: &v})
		require.Equal(t, http.StatusOK, w.Code)
		out := decode[setAllocationResponse](t, w)
		require.True(t, out.Write.Clamped)
		require.True(t, decimal.NewFromInt(40000).Equal(out.Write.Applied))
		require.Equal(t, []string{"Valor máximo disponível: R$ 40.000,00"}, out.View.Warnings)
		require.True(t, out.View.Status.IsFullyAllocated)
	})

	t.Run("slider without patrimony", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)
		s.do(t, http.MethodPut, "/sessions/"+id+"/selection", setSelectionRequest{Category: "Renda Fixa", Product: "CDB", Selected: true})

		f := decimal.NewFromFloat(0.5)
		w := s.do(t, http.MethodPut, "/sessions/"+id+"/allocations", setAllocationRequest{Category: "Renda Fixa", Product: "CDB", Fraction: &f})
		require.Equal(t, http.StatusOK, w.Code)
		out := decode[setAllocationResponse](t, w)
		require.True(t, out.Write.PatrimonyNotSet)
		require.True(t, out.Write.Applied.IsZero())
	})

	t.Run("needs exactly one value", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		w := s.do(t, http.MethodPut, "/sessions/"+id+"/allocations", setAllocationRequest{Category: "Renda Fixa", Product: "CDB"})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown asset", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		w := s.do(t, http.MethodPut, "/sessions/"+id+"/selection", setSelectionRequest{Category: "Cripto", Product: "Doge", Selected: true})
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestApi_steps(t *testing.T) {
	t.Run("blocked without patrimony", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		w := s.do(t, http.MethodPost, "/sessions/"+id+"/steps/next", nil)
		require.Equal(t, http.StatusOK, w.Code)
		out := decode[stepResponse](t, w)
		require.Equal(t, "moved", string(out.Transition.Outcome))
		require.Equal(t, 1, out.View.Step.Current)

		w = s.do(t, http.MethodPost, "/sessions/"+id+"/steps/next", nil)
		out = decode[stepResponse](t, w)
		require.Equal(t, "blocked", string(out.Transition.Outcome))
		require.Equal(t, "Por favor, informe o valor do seu patrimônio.", out.Transition.Message)
	})

	t.Run("goto forward validates intermediate steps", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)
		s.do(t, http.MethodPost, "/sessions/"+id+"/patrimony", setPatrimonyRequest{Value: "100.000,00", Mode: "change"})

		index := 4
		w := s.do(t, http.MethodPost, "/sessions/"+id+"/steps/goto", goToStepRequest{Index: &index})
		require.Equal(t, http.StatusOK, w.Code)
		out := decode[stepResponse](t, w)
		require.Equal(t, "blocked", string(out.Transition.Outcome))
		require.Equal(t, "Por favor, selecione pelo menos um tipo de ativo.", out.Transition.Message)

		w = s.do(t, http.MethodPost, "/sessions/"+id+"/steps/goto", goToStepRequest{})
		require.Equal(t, http.StatusBadRequest, w.Code)

		bad := 42
		w = s.do(t, http.MethodPost, "/sessions/"+id+"/steps/goto", goToStepRequest{Index: &bad})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("previous from the first step is a noop", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		w := s.do(t, http.MethodPost, "/sessions/"+id+"/steps/previous", nil)
		out := decode[stepResponse](t, w)
		require.Equal(t, "noop", string(out.Transition.Outcome))
	})
}

func TestApi_comparisonAndFees(t *testing.T) {
	t.Run("comparison for the 2M scenario", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)
		s.do(t, http.MethodPost, "/sessions/"+id+"/patrimony", setPatrimonyRequest{Value: "2.000.000,00", Mode: "change"})
		s.do(t, http.MethodPut, "/sessions/"+id+"/selection", setSelectionRequest{Category: "Fundo de Investimento", Product: "Ações", Selected: true})
		v := decimal.NewFromInt(2000000)
		s.do(t, http.MethodPut, "/sessions/"+id+"/allocations", setAllocationRequest{Category: "Fundo de Investimento", Product: "Ações", Value: &v})

		w := s.do(t, http.MethodGet, "/sessions/"+id+"/comparison", nil)
		require.Equal(t, http.StatusOK, w.Code)
		out := decode[comparisonResponse](t, w)
		require.True(t, decimal.NewFromInt(15000).Equal(out.Comparison.Result.TraditionalAnnualCost))
		require.True(t, decimal.NewFromInt(20000).Equal(out.Comparison.Result.ReinoAnnualCost))
		require.False(t, out.Comparison.Result.IsReinoCheaper)
	})

	t.Run("traditional table", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodGet, "/fees/traditional", nil)
		require.Equal(t, http.StatusOK, w.Code)
		out := decode[[]traditionalCategoryResponse](t, w)
		require.Len(t, out, 5)
		require.Equal(t, "Renda Fixa", out[0].Category)
		require.Equal(t, "CDB", out[0].Products[0].Product)
	})

	t.Run("reino simulation", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodGet, "/fees/reino/simulation?patrimony=500000&patrimony=2.000.000,00", nil)
		require.Equal(t, http.StatusOK, w.Code)
		out := decode[reinoSimulationResponse](t, w)
		require.Len(t, out.Simulations, 2)
		require.Equal(t, "< 1M", out.Simulations[0].BracketLabel)
		require.True(t, decimal.NewFromInt(799).Equal(out.Simulations[0].AnnualCost))
		require.True(t, decimal.NewFromInt(20000).Equal(out.Simulations[1].AnnualCost))
		require.Len(t, out.Tiers, 7)

		w = s.do(t, http.MethodGet, "/fees/reino/simulation?patrimony=abc", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestApi_submit(t *testing.T) {
	t.Run("validation errors", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		w := s.do(t, http.MethodPost, "/sessions/"+id+"/submit", nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		out := decode[validationErrorResponse](t, w)
		require.Equal(t, []string{service.MessagePatrimonyRequired, service.MessageAssetRequired}, out.Errors)
	})

	t.Run("submit then complete typebot", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)
		s.do(t, http.MethodPost, "/sessions/"+id+"/patrimony", setPatrimonyRequest{Value: "500.000,00", Mode: "change"})
		s.do(t, http.MethodPut, "/sessions/"+id+"/selection", setSelectionRequest{Category: "Renda Fixa", Product: "CDB", Selected: true})

		token := signedToken(t, "user-1", "ana@example.com", time.Now().Add(time.Hour))
		w := s.do(t, http.MethodPost, "/sessions/"+id+"/submit", submitRequest{PageURL: "https://reino.com.br/calc"}, "Authorization", "Bearer "+token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		out := decode[submitResponse](t, w)
		require.Equal(t, id, out.SessionID)
		require.Equal(t, repository.SubmissionTypeDirect, out.SubmissionType)

		w = s.do(t, http.MethodPost, "/submissions/"+out.SubmissionID+"/typebot", map[string]string{"nome": "Ana"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		completed := decode[completeTypebotResponse](t, w)
		require.Equal(t, repository.SubmissionTypeTypebot, completed.SubmissionType)
		require.NotEmpty(t, completed.CompletedAt)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		s := newTestServer(t)
		id := s.newSession(t)

		expired := signedToken(t, "user-1", "", time.Now().Add(-time.Hour))
		w := s.do(t, http.MethodPost, "/sessions/"+id+"/submit", nil, "Authorization", "Bearer "+expired)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("completion for an unknown submission", func(t *testing.T) {
		s := newTestServer(t)
		w := s.do(t, http.MethodPost, "/submissions/"+uuid.NewString()+"/typebot", map[string]string{"nome": "Ana"})
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestApi_metrics(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/", nil)

	w := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, strings.Contains(w.Body.String(), `reino_api_test_http_requests_total{method="GET",route="/",status="200"} 1`))
}

func Test_errorStatusCode(t *testing.T) {
	for _, tc := range []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: abc", service.ErrSessionNotFound), http.StatusNotFound},
		{repository.ErrSubmissionNotFound, http.StatusNotFound},
		{fmt.Errorf("failed to set allocation: %w", ledger.ErrUnknownAsset), http.StatusNotFound},
		{service.ValidationError{Errors: []string{"x"}}, http.StatusBadRequest},
		{app.ErrInvalidAllocationRequest, http.StatusBadRequest},
		{fmt.Errorf("failed to store submission: %w", readiness.ErrNotReady), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	} {
		require.Equal(t, tc.want, errorStatusCode(tc.err), tc.err.Error())
	}
}
