package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"snapquote/internal/export"
	"snapquote/internal/service"
)

// SessionHandler handles quote session endpoints.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid session id")
		return uuid.Nil, false
	}
	return id, true
}

// Create handles POST /api/v1/sessions
// @Summary Start a new quote session
// @Tags sessions
// @Produce json
// @Success 201 {object} APIResponse{data=service.SessionView}
// @Security BearerAuth
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	view, err := h.sessionService.Create(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, view)
}

// Get handles GET /api/v1/sessions/:id
// @Summary Get a quote session with its merged line items
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse{data=service.SessionView}
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := h.sessionService.Get(c.Request.Context(), userID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// List handles GET /api/v1/sessions
// @Summary List the caller's quote sessions
// @Tags sessions
// @Produce json
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Page size" default(20)
// @Success 200 {object} APIResponse{data=[]domain.SessionRecord}
// @Security BearerAuth
// @Router /sessions [get]
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	records, total, err := h.sessionService.List(c.Request.Context(), userID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, records, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// Extract handles POST /api/v1/sessions/:id/extract
// @Summary Extract line items from a price list photo
// @Description Uploads a photo, runs OCR extraction and catalog matching, and
// replaces the session's base items. A slower earlier extraction can never
// overwrite the result of a newer one.
// @Tags sessions
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param image formData file true "Price list photo (JPG or PNG)"
// @Success 200 {object} APIResponse{data=service.SessionView}
// @Failure 409 {object} APIResponse "Superseded by a newer extraction"
// @Failure 502 {object} APIResponse "Extraction failed"
// @Security BearerAuth
// @Router /sessions/{id}/extract [post]
func (h *SessionHandler) Extract(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := sessionID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_IMAGE", "image field is required")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "could not read uploaded image")
		return
	}

	contentType := header.Header.Get("Content-Type")
	view, err := h.sessionService.Extract(c.Request.Context(), userID, id, data, contentType)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// AddItem handles POST /api/v1/sessions/:id/items
// @Summary Add a standalone line item
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param input body service.EditInput true "Item fields"
// @Success 201 {object} APIResponse{data=service.EditResult}
// @Security BearerAuth
// @Router /sessions/{id}/items [post]
func (h *SessionHandler) AddItem(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var input service.EditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.sessionService.AddItem(c.Request.Context(), userID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// UpsertEdit handles PUT /api/v1/sessions/:id/items/:n
// @Summary Edit a line item
// @Description Stores a whole-record override for the item. Fields omitted
// from the request fall back to the previously stored edit, not to the
// extracted base item. Out-of-range values are clamped and reported.
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param n path int true "Item number"
// @Param input body service.EditInput true "Edited fields"
// @Success 200 {object} APIResponse{data=service.EditResult}
// @Security BearerAuth
// @Router /sessions/{id}/items/{n} [put]
func (h *SessionHandler) UpsertEdit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := sessionID(c)
	if !ok {
		return
	}
	itemNumber, err := strconv.Atoi(c.Param("n"))
	if err != nil || itemNumber < 1 {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "item number must be a positive integer")
		return
	}

	var input service.EditInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.sessionService.UpsertEdit(c.Request.Context(), userID, id, itemNumber, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, result)
}

// SetRates handles PUT /api/v1/sessions/:id/rates
// @Summary Set the global discount and GST rate
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param input body service.RatesInput true "Document-level rates"
// @Success 200 {object} APIResponse{data=service.SessionView}
// @Security BearerAuth
// @Router /sessions/{id}/rates [put]
func (h *SessionHandler) SetRates(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var input service.RatesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.sessionService.SetRates(c.Request.Context(), userID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// SetMeta handles PUT /api/v1/sessions/:id/meta
// @Summary Set quotation metadata
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param input body service.MetaInput true "Customer and company names"
// @Success 200 {object} APIResponse{data=service.SessionView}
// @Security BearerAuth
// @Router /sessions/{id}/meta [put]
func (h *SessionHandler) SetMeta(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var input service.MetaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	view, err := h.sessionService.SetMeta(c.Request.Context(), userID, id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}

// Quotation handles GET /api/v1/sessions/:id/quotation
// @Summary Get the assembled quotation with computed totals
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse{data=domain.Quotation}
// @Security BearerAuth
// @Router /sessions/{id}/quotation [get]
func (h *SessionHandler) Quotation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := sessionID(c)
	if !ok {
		return
	}

	q, err := h.sessionService.Quotation(c.Request.Context(), userID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, q)
}

// Finalize handles POST /api/v1/sessions/:id/finalize
// @Summary Finalize the quotation
// @Description Assigns a quotation number, validates the document, and marks
// the session read-only.
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse{data=domain.Quotation}
// @Failure 400 {object} APIResponse "Quotation has no line items"
// @Security BearerAuth
// @Router /sessions/{id}/finalize [post]
func (h *SessionHandler) Finalize(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := sessionID(c)
	if !ok {
		return
	}

	q, err := h.sessionService.Finalize(c.Request.Context(), userID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, q)
}

// Export handles GET /api/v1/sessions/:id/export
// @Summary Download the quotation as an XLSX workbook
// @Tags sessions
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /sessions/{id}/export [get]
func (h *SessionHandler) Export(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := sessionID(c)
	if !ok {
		return
	}

	q, err := h.sessionService.Quotation(c.Request.Context(), userID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	data, err := export.QuotationXLSX(q)
	if err != nil {
		HandleError(c, err)
		return
	}

	filename := "quotation.xlsx"
	if q.Meta.QuotationNumber != "" {
		filename = q.Meta.QuotationNumber + ".xlsx"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

type shareInput struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// Share handles POST /api/v1/sessions/:id/share
// @Summary Email the quotation to a recipient
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param input body shareInput true "Recipient"
// @Success 200 {object} APIResponse
// @Failure 502 {object} APIResponse "Sending failed"
// @Security BearerAuth
// @Router /sessions/{id}/share [post]
func (h *SessionHandler) Share(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var input shareInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	if err := h.sessionService.Share(c.Request.Context(), userID, id, input.Email, input.Name); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "quotation sent"})
}

// Reset handles POST /api/v1/sessions/:id/reset
// @Summary Clear extracted items and edits, keeping the session and its rates
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} APIResponse{data=service.SessionView}
// @Security BearerAuth
// @Router /sessions/{id}/reset [post]
func (h *SessionHandler) Reset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := h.sessionService.Reset(c.Request.Context(), userID, id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, view)
}
