package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openmol/chemvault/internal/middleware"
	"github.com/openmol/chemvault/internal/services"
	"github.com/openmol/chemvault/pkg/errors"
	"github.com/openmol/chemvault/pkg/response"
)

// UserHandler exposes the user directory.
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler constructs a handler for user endpoints.
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type userSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// GET /api/users/search?q=
func (h *UserHandler) Search(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	users, err := h.users.Search(requestContext(c), userID, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}

	summaries := make([]userSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, userSummary{ID: user.ID, Username: user.Username})
	}

	response.Success(c, http.StatusOK, summaries)
}
