package handler

import (
	"context"
	"html/template"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService     service.RequestService
	lifecycleService   service.LifecycleService
	certificateService service.CertificateService
}

func NewRequestHandler(
	requestService service.RequestService,
	lifecycleService service.LifecycleService,
	certificateService service.CertificateService,
) *RequestHandler {
	return &RequestHandler{
		requestService:     requestService,
		lifecycleService:   lifecycleService,
		certificateService: certificateService,
	}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	requests.Use(middleware.RequireRole(model.RoleAdmin, model.RoleSuperadmin))
	{
		requests.GET("", h.ListRequests)
		requests.GET("/export", h.ExportPrintTable)
		requests.POST("", h.CreateRequest)
		requests.GET("/:id", h.GetRequest)
		requests.PUT("/:id", h.UpdateRequest)
		requests.PUT("/:id/process", h.ProcessRequest)
		requests.PUT("/:id/accept", h.AcceptRequest)
		requests.PUT("/:id/decline", h.DeclineRequest)
		requests.PUT("/:id/restore", h.RestoreRequest)
		requests.GET("/:id/certificate", h.PrintCertificate)
	}
}

// CreateRequest records a walk-in document request
// @Summary      Create document request
// @Description  Creates a Pending walk-in request for the admin's barangay
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      service.CreateRequestDTO  true  "Request fields"
// @Success      201      {object}  response.Response{data=service.RequestResponse}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var req service.CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.Create(c.Request.Context(), actorFromContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListRequests returns one of the three table views. Without a status query
// it returns the active view (Pending + Processing); status=Accepted is the
// History view and status=Declined the Archive view.
// @Summary      List document requests
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "Accepted, Declined, Pending or Processing; empty for the active view"
// @Param        type    query  string  false  "Certificate type filter"
// @Param        page    query  int     false  "Page"
// @Param        limit   query  int     false  "Limit"
// @Success      200  {object}  response.ListResponse
// @Router       /api/requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	params := pagination.Parse(c)
	filter := service.RequestFilter{
		Statuses:        statusesFromQuery(c.Query("status")),
		CertificateType: c.Query("type"),
		Page:            params.Page,
		Limit:           params.Limit,
	}

	requests, total, err := h.requestService.List(c.Request.Context(), actorFromContext(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.List(http.StatusOK, requests, total, params.Page, params.Limit))
}

// GetRequest returns a single request by id
// @Summary      Get document request
// @Tags         requests
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	result, err := h.requestService.GetByID(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UpdateRequest edits requester fields; residency age is re-derived from the
// birth date on every edit
// @Summary      Update document request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path  string                    true  "Request ID"
// @Param        payload  body  service.UpdateRequestDTO  true  "Fields to update"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id} [put]
func (h *RequestHandler) UpdateRequest(c *gin.Context) {
	var req service.UpdateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	result, err := h.requestService.Update(c.Request.Context(), actorFromContext(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ProcessRequest moves a Pending request to Processing
// @Summary      Process request
// @Tags         lifecycle
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      403  {object}  response.Response
// @Router       /api/requests/{id}/process [put]
func (h *RequestHandler) ProcessRequest(c *gin.Context) {
	h.transition(c, h.lifecycleService.Process)
}

// AcceptRequest moves a Processing request to Accepted
// @Summary      Accept request
// @Tags         lifecycle
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      403  {object}  response.Response
// @Router       /api/requests/{id}/accept [put]
func (h *RequestHandler) AcceptRequest(c *gin.Context) {
	h.transition(c, h.lifecycleService.Accept)
}

// DeclineRequest moves a Pending request to Declined
// @Summary      Decline request
// @Tags         lifecycle
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      403  {object}  response.Response
// @Router       /api/requests/{id}/decline [put]
func (h *RequestHandler) DeclineRequest(c *gin.Context) {
	h.transition(c, h.lifecycleService.Decline)
}

// RestoreRequest returns a Declined request to Pending and clears the
// declined audit pair
// @Summary      Restore request
// @Tags         lifecycle
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  string  true  "Request ID"
// @Success      200  {object}  response.Response{data=service.RequestResponse}
// @Failure      403  {object}  response.Response
// @Router       /api/requests/{id}/restore [put]
func (h *RequestHandler) RestoreRequest(c *gin.Context) {
	h.transition(c, h.lifecycleService.Restore)
}

type transitionFunc func(ctx context.Context, actor service.Actor, id string) (service.RequestResponse, error)

func (h *RequestHandler) transition(c *gin.Context, fn transitionFunc) {
	result, err := fn(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// PrintCertificate renders the certificate PDF for an Accepted request.
// Serves both the initial print after accept and later reprints.
// @Summary      Print certificate
// @Tags         lifecycle
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "Request ID"
// @Success      200  {file}    file
// @Failure      403  {object}  response.Response
// @Router       /api/requests/{id}/certificate [get]
func (h *RequestHandler) PrintCertificate(c *gin.Context) {
	pdfBytes, err := h.certificateService.Generate(c.Request.Context(), actorFromContext(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="certificate.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}

// printTableTemplate is the standalone print-formatted export of a request
// list; a presentation artifact, not a data interface.
var printTableTemplate = template.Must(template.New("print").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Document Requests</title>
<style>
body { font-family: Arial, sans-serif; margin: 24px; }
h1 { font-size: 16px; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #333; padding: 6px 8px; font-size: 12px; text-align: left; }
th { background: #eee; }
</style>
</head>
<body onload="window.print()">
<h1>Document Requests</h1>
<table>
<tr><th>Request ID</th><th>Name</th><th>Age</th><th>Civil Status</th><th>Certificate Type</th><th>Purpose</th><th>Request Date</th></tr>
{{range .}}<tr><td>{{.DisplayID}}</td><td>{{.Name}}</td><td>{{.Age}}</td><td>{{.CivilStatus}}</td><td>{{.CertificateType}}</td><td>{{.Purpose}}</td><td>{{.RequestDate}}</td></tr>
{{end}}</table>
</body>
</html>
`))

// ExportPrintTable renders the current view as a standalone printable HTML
// table
// @Summary      Export printable table
// @Tags         requests
// @Produce      html
// @Security     BearerAuth
// @Param        status  query  string  false  "Status view to export"
// @Param        type    query  string  false  "Certificate type filter"
// @Success      200  {string}  string
// @Router       /api/requests/export [get]
func (h *RequestHandler) ExportPrintTable(c *gin.Context) {
	filter := service.RequestFilter{
		Statuses:        statusesFromQuery(c.Query("status")),
		CertificateType: c.Query("type"),
		Page:            1,
		Limit:           pagination.MaxLimit,
	}

	// The printout covers the whole view, so page through it rather than
	// truncating at the list endpoint's page cap.
	actor := actorFromContext(c)
	var all []service.RequestResponse
	for {
		requests, total, err := h.requestService.List(c.Request.Context(), actor, filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
			return
		}
		all = append(all, requests...)
		if len(requests) == 0 || int64(len(all)) >= total {
			break
		}
		filter.Page++
	}

	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := printTableTemplate.Execute(c.Writer, all); err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}

func statusesFromQuery(status string) []string {
	switch status {
	case "":
		return []string{model.StatusPending, model.StatusProcessing}
	default:
		return []string{status}
	}
}
