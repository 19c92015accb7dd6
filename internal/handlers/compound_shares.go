package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openmol/chemvault/internal/middleware"
	"github.com/openmol/chemvault/internal/services"
	"github.com/openmol/chemvault/pkg/errors"
	"github.com/openmol/chemvault/pkg/response"
)

// ShareHandler exposes grant and listing operations for compound shares.
type ShareHandler struct {
	shares *services.ShareService
}

// NewShareHandler constructs a handler for share endpoints.
func NewShareHandler(shares *services.ShareService) *ShareHandler {
	return &ShareHandler{shares: shares}
}

type grantShareRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

// POST /api/compounds/:id/shares
func (h *ShareHandler) Grant(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req grantShareRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.shares.Grant(requestContext(c), userID, c.Param("id"), req.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"compound_id":         result.Share.CompoundID,
		"shared_with_user_id": result.Share.UserID,
		"expires_at":          result.Share.ExpiresAt,
		"is_new_share":        result.Created,
	})
}

// GET /api/compounds/:id/shares
func (h *ShareHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	entries, err := h.shares.ListShares(requestContext(c), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, entries)
}
