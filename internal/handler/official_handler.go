package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type OfficialHandler struct {
	officialService service.OfficialService
}

func NewOfficialHandler(officialService service.OfficialService) *OfficialHandler {
	return &OfficialHandler{officialService: officialService}
}

func (h *OfficialHandler) RegisterRoutes(router *gin.RouterGroup) {
	officials := router.Group("/api/officials")
	{
		// Admins read the roster (certificate preview); editing is superadmin tooling
		officials.GET("", middleware.RequireRole(model.RoleAdmin, model.RoleSuperadmin), h.ListOfficials)
		officials.POST("", middleware.RequireRole(model.RoleSuperadmin), h.CreateOfficial)
		officials.PUT("/:id", middleware.RequireRole(model.RoleSuperadmin), h.UpdateOfficial)
		officials.DELETE("/:id", middleware.RequireRole(model.RoleSuperadmin), h.DeleteOfficial)
	}
}

// ListOfficials returns the roster of a barangay
// @Summary      List officials
// @Tags         officials
// @Produce      json
// @Security     BearerAuth
// @Param        barangay_id  query  string  false  "Barangay; defaults to the admin's own"
// @Success      200  {object}  response.Response{data=[]service.OfficialResponse}
// @Router       /api/officials [get]
func (h *OfficialHandler) ListOfficials(c *gin.Context) {
	actor := actorFromContext(c)
	barangayID := c.Query("barangay_id")
	if barangayID == "" {
		barangayID = actor.BarangayID.String()
	}

	officials, err := h.officialService.ListByBarangay(c.Request.Context(), actor, barangayID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, officials))
}

// CreateOfficial adds an official to a barangay roster
// @Summary      Create official
// @Tags         officials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.OfficialDTO  true  "Official fields"
// @Success      201      {object}  response.Response{data=service.OfficialResponse}
// @Failure      400      {object}  response.Response
// @Router       /api/officials [post]
func (h *OfficialHandler) CreateOfficial(c *gin.Context) {
	var req service.OfficialDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	official, err := h.officialService.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, official))
}

// UpdateOfficial edits an official's record
// @Summary      Update official
// @Tags         officials
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                     true  "Official ID"
// @Param        payload  body  service.UpdateOfficialDTO  true  "Fields to update"
// @Success      200  {object}  response.Response{data=service.OfficialResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/officials/{id} [put]
func (h *OfficialHandler) UpdateOfficial(c *gin.Context) {
	var req service.UpdateOfficialDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	official, err := h.officialService.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, official))
}

// DeleteOfficial removes an official from the roster
// @Summary      Delete official
// @Tags         officials
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Official ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/officials/{id} [delete]
func (h *OfficialHandler) DeleteOfficial(c *gin.Context) {
	if err := h.officialService.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "official deleted"}))
}
