package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type BarangayHandler struct {
	barangayService service.BarangayService
}

func NewBarangayHandler(barangayService service.BarangayService) *BarangayHandler {
	return &BarangayHandler{barangayService: barangayService}
}

func (h *BarangayHandler) RegisterRoutes(router *gin.RouterGroup) {
	barangays := router.Group("/api/barangays")
	{
		barangays.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleSuperadmin), h.ListBarangays)
		barangays.GET("/:id", middleware.RequireRole(model.RoleAdmin, model.RoleSuperadmin), h.GetBarangay)
		barangays.POST("", middleware.RequireRole(model.RoleSuperadmin), h.CreateBarangay)
		barangays.PUT("/:id", middleware.RequireRole(model.RoleSuperadmin), h.UpdateBarangay)
	}
}

// ListBarangays returns all registered barangays
// @Summary      List barangays
// @Tags         barangays
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  response.Response{data=[]service.BarangayResponse}
// @Router       /api/barangays [get]
func (h *BarangayHandler) ListBarangays(c *gin.Context) {
	barangays, err := h.barangayService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, barangays))
}

// GetBarangay returns one barangay by id
// @Summary      Get barangay
// @Tags         barangays
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Barangay ID"
// @Success      200  {object}  response.Response{data=service.BarangayResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/barangays/{id} [get]
func (h *BarangayHandler) GetBarangay(c *gin.Context) {
	barangay, err := h.barangayService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, barangay))
}

// CreateBarangay registers a new barangay
// @Summary      Create barangay
// @Tags         barangays
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.BarangayDTO  true  "Barangay fields"
// @Success      201      {object}  response.Response{data=service.BarangayResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/barangays [post]
func (h *BarangayHandler) CreateBarangay(c *gin.Context) {
	var req service.BarangayDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	barangay, err := h.barangayService.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, barangay))
}

// UpdateBarangay edits barangay display metadata
// @Summary      Update barangay
// @Tags         barangays
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                     true  "Barangay ID"
// @Param        payload  body  service.UpdateBarangayDTO  true  "Fields to update"
// @Success      200  {object}  response.Response{data=service.BarangayResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/barangays/{id} [put]
func (h *BarangayHandler) UpdateBarangay(c *gin.Context) {
	var req service.UpdateBarangayDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	barangay, err := h.barangayService.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, barangay))
}
