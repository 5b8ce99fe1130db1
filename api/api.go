package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"reinocalc/internal/app"
	"reinocalc/internal/feetable"
	"reinocalc/internal/ledger"
	"reinocalc/internal/logger"
	"reinocalc/internal/metrics"
	"reinocalc/internal/readiness"
	"reinocalc/internal/repository"
	"reinocalc/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ApiHandler struct {
	Db                *sql.DB
	Fees              *feetable.Tables
	SessionService    service.SessionService
	SubmissionService service.SubmissionService
	Metrics           *metrics.Metrics
	Log               *zap.SugaredLogger
	JwtDecodeToken    string
	RequireAuth       bool
	TypebotEnabled    bool
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.Default())
	router.Use(m.logRequestMiddleware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to reino calculator"})
	})
	if m.Metrics != nil {
		router.GET("/metrics", gin.WrapH(m.Metrics.Handler()))
	}

	router.GET("/fees/traditional", m.getTraditionalFees)
	router.GET("/fees/reino/simulation", m.getReinoSimulation)

	router.POST("/sessions", m.createSession)
	router.GET("/sessions/:id", m.getSession)
	router.DELETE("/sessions/:id", m.deleteSession)
	router.POST("/sessions/:id/patrimony", m.setPatrimony)
	router.POST("/sessions/:id/events", m.dispatchInputEvent)
	router.PUT("/sessions/:id/allocations", m.setAllocation)
	router.PUT("/sessions/:id/selection", m.setSelection)
	router.DELETE("/sessions/:id/selection", m.clearSelection)
	router.POST("/sessions/:id/steps/next", m.nextStep)
	router.POST("/sessions/:id/steps/previous", m.previousStep)
	router.POST("/sessions/:id/steps/goto", m.goToStep)
	router.POST("/sessions/:id/reset", m.resetSession)
	router.GET("/sessions/:id/comparison", m.getComparison)
	router.POST("/sessions/:id/submit", m.submit)

	router.POST("/submissions/:id/typebot", m.completeTypebot)

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	returnErrorJsonCode(err, c, errorStatusCode(err))
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	log := logger.FromContext(c.Request.Context())
	if code >= 500 {
		log.Errorw("request failed", "route", c.FullPath(), "error", err)
	} else {
		log.Infow("request rejected", "route", c.FullPath(), "status", code, "error", err)
	}
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

func errorStatusCode(err error) int {
	switch {
	case errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, repository.ErrSubmissionNotFound),
		errors.Is(err, ledger.ErrUnknownAsset):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidSubmission),
		errors.Is(err, app.ErrInvalidAllocationRequest):
		return http.StatusBadRequest
	case errors.Is(err, readiness.ErrNotReady):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (m ApiHandler) calculator(c *gin.Context) (*app.Calculator, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		returnErrorJsonCode(fmt.Errorf("invalid session id: %w", err), c, http.StatusBadRequest)
		return nil, false
	}
	calc, err := m.SessionService.Get(id)
	if err != nil {
		returnErrorJson(err, c)
		return nil, false
	}
	return calc, true
}

func (m ApiHandler) logRequestMiddleware(ctx *gin.Context) {
	start := time.Now()

	log := m.Log
	if log == nil {
		log = zap.S()
	}
	log = log.With("method", ctx.Request.Method, "path", ctx.Request.URL.Path)
	ctx.Request = ctx.Request.WithContext(logger.WithLogger(ctx.Request.Context(), log))

	ctx.Next()

	route := ctx.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := ctx.Writer.Status()
	elapsed := time.Since(start)

	if m.Metrics != nil {
		m.Metrics.HTTPRequestsTotal.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(status)).Inc()
		m.Metrics.HTTPRequestDuration.WithLabelValues(ctx.Request.Method, route).Observe(elapsed.Seconds())
	}
	log.Debugw("request served", "status", status, "elapsedMs", elapsed.Milliseconds())
}
