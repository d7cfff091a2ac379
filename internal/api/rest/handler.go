package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/dto"
	apierrors "github.com/feral-file/ff-buyer-indexer/internal/api/shared/errors"
	"github.com/feral-file/ff-buyer-indexer/internal/api/shared/executor"
	"github.com/feral-file/ff-buyer-indexer/internal/logger"
)

// Handler defines the interface for REST API handlers
type Handler interface {
	// GetIdentity resolves the display identity of one address
	// GET /api/v1/identities/:address
	GetIdentity(c *gin.Context)

	// ResolveIdentities resolves many addresses at once
	// POST /api/v1/identities/batch
	ResolveIdentities(c *gin.Context)

	// GetLeaderboard ranks buyers of a period
	// GET /api/v1/leaderboard?period=1d|7d|30d&limit=<limit>
	GetLeaderboard(c *gin.Context)

	// GetBuyer returns a buyer profile by address or known name
	// GET /api/v1/buyers/:address?limit=<limit>
	GetBuyer(c *gin.Context)

	// TriggerIngest runs one ingestion pass and returns its result
	// POST /api/v1/ingest
	TriggerIngest(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug    bool
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(debug bool, exec executor.Executor) Handler {
	return &handler{
		debug:    debug,
		executor: exec,
	}
}

func (h *handler) GetIdentity(c *gin.Context) {
	address := strings.TrimSpace(c.Param("address"))
	if address == "" {
		respondBadRequest(c, "Address is required")
		return
	}

	identity, err := h.executor.GetIdentity(c.Request.Context(), address)
	if err != nil {
		respondError(c, err, "Failed to resolve identity", zap.String("address", address))
		return
	}

	c.JSON(http.StatusOK, identity)
}

func (h *handler) ResolveIdentities(c *gin.Context) {
	var req dto.ResolveIdentitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return
	}

	if err := req.Validate(); err != nil {
		respondError(c, err, "Invalid request")
		return
	}

	response, err := h.executor.GetIdentities(c.Request.Context(), req.Addresses)
	if err != nil {
		respondError(c, err, "Failed to resolve identities", zap.Int("count", len(req.Addresses)))
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *handler) GetLeaderboard(c *gin.Context) {
	params, err := ParseLeaderboardQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := params.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.GetLeaderboard(c.Request.Context(), params.Period, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to get leaderboard", zap.String("period", string(params.Period)))
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *handler) GetBuyer(c *gin.Context) {
	addressOrName := strings.TrimSpace(c.Param("address"))
	if addressOrName == "" {
		respondBadRequest(c, "Address or name is required")
		return
	}

	params, err := ParseBuyerQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := params.Validate(); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	response, err := h.executor.GetBuyer(c.Request.Context(), addressOrName, params.Limit)
	if err != nil {
		respondError(c, err, "Failed to get buyer", zap.String("buyer", addressOrName))
		return
	}

	if response == nil {
		respondNotFound(c, "Buyer not found")
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *handler) TriggerIngest(c *gin.Context) {
	result := h.executor.TriggerIngest(c.Request.Context())
	if result.OK {
		c.JSON(http.StatusOK, result)
		return
	}

	status := http.StatusInternalServerError
	if result.Error != nil {
		status = ingestStatus(result.Error.Code)
	}
	c.JSON(status, result)
}

func (h *handler) HealthCheck(c *gin.Context) {
	if err := h.executor.Health(c.Request.Context()); err != nil {
		logger.WarnCtx(c.Request.Context(), "Health check failed", zap.Error(err))
		if h.debug {
			respondWithError(c, http.StatusServiceUnavailable, apierrors.ErrCodeDatabaseError, "Service unhealthy", err.Error())
			return
		}
		respondWithError(c, http.StatusServiceUnavailable, apierrors.ErrCodeDatabaseError, "Service unhealthy")
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{Status: "healthy"})
}
