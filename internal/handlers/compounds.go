package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/openmol/chemvault/internal/middleware"
	"github.com/openmol/chemvault/internal/services"
	"github.com/openmol/chemvault/pkg/errors"
	"github.com/openmol/chemvault/pkg/response"
)

// CompoundHandler exposes CRUD and search operations for compounds.
type CompoundHandler struct {
	compounds *services.CompoundService
}

// NewCompoundHandler constructs a handler for compound endpoints.
func NewCompoundHandler(compounds *services.CompoundService) *CompoundHandler {
	return &CompoundHandler{compounds: compounds}
}

// GET /api/compounds?q=
// GET /api/compounds/search?q=
// Both views run the identical visibility query; search simply always
// carries a filter.
func (h *CompoundHandler) List(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	compounds, err := h.compounds.List(requestContext(c), userID, c.Query("q"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, compounds)
}

// GET /api/compounds/:id
func (h *CompoundHandler) Get(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	compound, err := h.compounds.Get(requestContext(c), userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, compound)
}

type createCompoundRequest struct {
	Name       string         `json:"name" validate:"required,max=255"`
	Smiles     string         `json:"smiles" validate:"required,max=255"`
	Properties map[string]any `json:"properties"`
}

// POST /api/compounds
func (h *CompoundHandler) Create(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req createCompoundRequest
	if !bindAndValidate(c, &req) {
		return
	}

	compound, err := h.compounds.Create(requestContext(c), userID, services.CreateCompoundInput{
		Name:       req.Name,
		Smiles:     req.Smiles,
		Properties: req.Properties,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, compound)
}

type updateCompoundRequest struct {
	Name       *string        `json:"name" validate:"omitempty,max=255"`
	Smiles     *string        `json:"smiles" validate:"omitempty,max=255"`
	Properties map[string]any `json:"properties"`
}

// PATCH /api/compounds/:id
func (h *CompoundHandler) Update(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req updateCompoundRequest
	if !bindAndValidate(c, &req) {
		return
	}

	compound, err := h.compounds.Update(requestContext(c), userID, c.Param("id"), services.UpdateCompoundInput{
		Name:       req.Name,
		Smiles:     req.Smiles,
		Properties: req.Properties,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, compound)
}

// DELETE /api/compounds/:id
func (h *CompoundHandler) Delete(c *gin.Context) {
	userID := c.GetString(middleware.CtxUserIDKey)
	if userID == "" {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	if err := h.compounds.Delete(requestContext(c), userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
