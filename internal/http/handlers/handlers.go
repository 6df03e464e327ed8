package handlers

import (
	"context"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/project-canary/backend/internal/db"
	"github.com/project-canary/backend/internal/models"
	"github.com/project-canary/backend/internal/seed"
	"github.com/project-canary/backend/internal/service"
	"github.com/project-canary/backend/internal/utils"
)

type Handler struct {
	Store       *db.Store
	Resolver    *service.Resolver
	Validator   *validator.Validate
	Logger      zerolog.Logger
	AdminKey    string
	JiraBaseURL string
	SnowBaseURL string
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "DB_UNAVAILABLE", "Database unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Dashboard statistics
// @Description Counters over the full case set, independent of any active filters
// @Tags stats
// @Produce json
// @Success 200 {object} models.DashboardStats
// @Router /api/stats [get]
func (h *Handler) StatsGet(c *gin.Context) {
	cases, err := h.Store.ListCases(c.Request.Context(), models.CaseFilters{})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load cases", err.Error())
		return
	}
	c.JSON(http.StatusOK, service.ComputeStats(cases))
}

// @Summary List cases
// @Description Filtered case listing; the view parameter selects a tab preset
// @Tags cases
// @Produce json
// @Param customer_name query string false "Customer name substring"
// @Param case_id query string false "Exact case id"
// @Param product query string false "Exact product"
// @Param priority query string false "Exact priority"
// @Param type query string false "Exact type"
// @Param status query string false "Exact status"
// @Param view query string false "Tab preset: all, high-priority, incidents, open"
// @Success 200 {object} map[string]any
// @Router /api/cases [get]
func (h *Handler) CasesList(c *gin.Context) {
	h.listWithView(c, c.Query("view"))
}

func (h *Handler) CasesHighPriority(c *gin.Context) { h.listWithView(c, "high-priority") }
func (h *Handler) CasesIncidents(c *gin.Context)    { h.listWithView(c, "incidents") }
func (h *Handler) CasesOpen(c *gin.Context)         { h.listWithView(c, "open") }

func (h *Handler) listWithView(c *gin.Context, viewName string) {
	view, ok := service.ResolveView(viewName)
	if !ok {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Unknown view: "+viewName, nil)
		return
	}

	filters := models.CaseFilters{
		CustomerName: strings.TrimSpace(c.Query("customer_name")),
		CaseID:       strings.TrimSpace(c.Query("case_id")),
		Product:      strings.TrimSpace(c.Query("product")),
		Priority:     strings.TrimSpace(c.Query("priority")),
		Type:         strings.TrimSpace(c.Query("type")),
		Status:       strings.TrimSpace(c.Query("status")),
	}

	cases, err := h.Store.ListCases(c.Request.Context(), view.Query(filters))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list cases", err.Error())
		return
	}
	cases = view.Apply(cases)
	if cases == nil {
		cases = []models.Case{}
	}
	c.JSON(http.StatusOK, gin.H{"cases": cases, "count": len(cases)})
}

func (h *Handler) CaseGet(c *gin.Context) {
	caseData, err := h.Store.GetCase(c.Request.Context(), c.Param("case_id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Case not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get case", err.Error())
		return
	}
	c.JSON(http.StatusOK, caseData)
}

type UpdateCaseRequest struct {
	CustomerName *string `json:"customer_name"`
	Description  *string `json:"description"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
	Type         *string `json:"type" validate:"omitempty,oneof=Inquiry Incident Jira Bug 'Feature Request'"`
	Status       *string `json:"status" validate:"omitempty,oneof=Open 'In Progress' Resolved Closed"`
	Product      *string `json:"product"`
	Module       *string `json:"module"`
	SubModule    *string `json:"sub_module"`
	Category     *string `json:"category"`
	Geography    *string `json:"geography"`
	JiraID       *string `json:"jira_id"`
	SnowID       *string `json:"snow_id"`
}

func (h *Handler) CaseUpdate(c *gin.Context) {
	var req UpdateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	update := db.CaseUpdate{
		CustomerName: req.CustomerName,
		Description:  req.Description,
		Priority:     req.Priority,
		Type:         req.Type,
		Status:       req.Status,
		Product:      req.Product,
		Module:       req.Module,
		SubModule:    req.SubModule,
		Category:     req.Category,
		Geography:    req.Geography,
		JiraID:       req.JiraID,
		SnowID:       req.SnowID,
	}
	caseData, err := h.Store.UpdateCase(c.Request.Context(), c.Param("case_id"), update)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Case not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update case", err.Error())
		return
	}
	c.JSON(http.StatusOK, caseData)
}

type CommentRequest struct {
	Comment string `json:"comment"`
}

func (h *Handler) CommentAdd(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	comment := strings.TrimSpace(req.Comment)
	if comment == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Comment must not be empty", nil)
		return
	}

	caseData, err := h.Store.AppendComment(c.Request.Context(), c.Param("case_id"), comment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Case not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to add comment", err.Error())
		return
	}
	c.JSON(http.StatusOK, caseData)
}

// @Summary Related cases
// @Description Ranked related cases for the given case, highest similarity first
// @Tags cases
// @Produce json
// @Success 200 {object} map[string]any
// @Failure 502 {object} map[string]any
// @Router /api/cases/{case_id}/similar [get]
func (h *Handler) SimilarGet(c *gin.Context) {
	entries, err := h.Resolver.RelatedCases(c.Request.Context(), c.Param("case_id"))
	if err != nil {
		if errors.Is(err, service.ErrEmptyCaseID) {
			writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "case_id is required", nil)
			return
		}
		writeError(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch related cases", err.Error())
		return
	}
	if entries == nil {
		entries = []models.SimilarCase{}
	}
	c.JSON(http.StatusOK, gin.H{"similar_cases": entries, "count": len(entries)})
}

func (h *Handler) CaseLinks(c *gin.Context) {
	caseData, err := h.Store.GetCase(c.Request.Context(), c.Param("case_id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Case not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get case", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"jira_url": utils.RefURL(h.JiraBaseURL, caseData.JiraID),
		"snow_url": utils.RefURL(h.SnowBaseURL, caseData.SnowID),
	})
}

type CreateCaseRequest struct {
	CustomerName string `json:"customer_name" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Product      string `json:"product" validate:"required"`
	Priority     string `json:"priority" validate:"omitempty,oneof=Low Medium High Critical"`
	Status       string `json:"status" validate:"omitempty,oneof=Open 'In Progress' Resolved Closed"`
	Geography    string `json:"geography"`
	JiraID       string `json:"jira_id"`
	SnowID       string `json:"snow_id"`
}

// @Summary Create case
// @Description Creates a case; type, module and category are classified from the description
// @Tags cases
// @Accept json
// @Produce json
// @Param case body CreateCaseRequest true "New case"
// @Success 201 {object} models.Case
// @Failure 400 {object} map[string]any
// @Router /api/cases [post]
func (h *Handler) CaseCreate(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if req.Priority == "" {
		req.Priority = "Medium"
	}
	if req.Status == "" {
		req.Status = "Open"
	}
	if req.Geography == "" {
		req.Geography = "North America"
	}

	total, err := h.Store.CountCases(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to count cases", err.Error())
		return
	}

	caseType := service.ClassifyType(req.Description)
	module, subModule := service.ClassifyModule(req.Description)
	now := time.Now().UTC()

	caseData, err := h.Store.InsertCase(c.Request.Context(), models.Case{
		CaseID:       seed.CaseID(total + 1),
		CustomerName: req.CustomerName,
		Description:  req.Description,
		Priority:     req.Priority,
		Type:         caseType,
		Status:       req.Status,
		Product:      req.Product,
		Module:       module,
		SubModule:    subModule,
		Category:     service.AssignCategory(caseType, req.Priority),
		Geography:    req.Geography,
		JiraID:       req.JiraID,
		SnowID:       req.SnowID,
		Comments:     []string{},
		CreatedDate:  now,
		UpdatedDate:  now,
	})
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create case", err.Error())
		return
	}
	c.JSON(http.StatusCreated, caseData)
}

func (h *Handler) ProductsList(c *gin.Context) {
	products, err := h.Store.ListProducts(c.Request.Context())
	if err != nil {
		// Enumerations populate filter controls; degrade to an empty
		// list instead of failing the dashboard.
		h.Logger.Warn().Err(err).Msg("failed to list products")
		products = nil
	}
	if products == nil {
		products = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) TypesList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"types": models.Types})
}

func (h *Handler) PrioritiesList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"priorities": models.Priorities})
}

func (h *Handler) TracksList(c *gin.Context) {
	tracks, err := h.Store.ListTracks(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list tracks", err.Error())
		return
	}
	if tracks == nil {
		tracks = []models.Track{}
	}
	c.JSON(http.StatusOK, tracks)
}

type CreateTrackRequest struct {
	TrackName string `json:"track_name"`
}

func (h *Handler) TrackCreate(c *gin.Context) {
	var req CreateTrackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	name := strings.TrimSpace(req.TrackName)
	if name == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "track_name must not be empty", nil)
		return
	}
	track, err := h.Store.CreateTrack(c.Request.Context(), name)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create track", err.Error())
		return
	}
	c.JSON(http.StatusCreated, track)
}

func (h *Handler) TrackDelete(c *gin.Context) {
	deleted, err := h.Store.DeleteTrack(c.Request.Context(), c.Param("track_id"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to delete track", err.Error())
		return
	}
	if !deleted {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Track not found", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) TrackCasesList(c *gin.Context) {
	caseIDs, err := h.Store.ListTrackCases(c.Request.Context(), c.Param("track_id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Track not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list track cases", err.Error())
		return
	}
	out := make([]gin.H, 0, len(caseIDs))
	for _, id := range caseIDs {
		out = append(out, gin.H{"case_id": id})
	}
	c.JSON(http.StatusOK, out)
}

type TrackCaseRequest struct {
	CaseID string `json:"case_id" validate:"required"`
}

func (h *Handler) TrackCaseAdd(c *gin.Context) {
	var req TrackCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	trackID := c.Param("track_id")
	if _, err := h.Store.ListTrackCases(c.Request.Context(), trackID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Track not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load track", err.Error())
		return
	}
	if _, err := h.Store.GetCase(c.Request.Context(), req.CaseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Case not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load case", err.Error())
		return
	}
	if err := h.Store.AddCaseToTrack(c.Request.Context(), trackID, req.CaseID); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to add case to track", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// @Summary Seed synthetic cases
// @Tags admin
// @Produce json
// @Param count query int false "Number of cases to generate (default 25, max 500)"
// @Success 200 {object} map[string]any
// @Router /api/admin/seed [post]
func (h *Handler) Seed(c *gin.Context) {
	count, _ := strconv.Atoi(c.DefaultQuery("count", "25"))
	if count <= 0 {
		count = 25
	}
	if count > 500 {
		count = 500
	}

	total, err := h.Store.CountCases(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to count cases", err.Error())
		return
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	batch := seed.GenerateBatch(rng, total+1, count)
	inserted, err := h.Store.InsertCases(c.Request.Context(), batch)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to insert cases", err.Error())
		return
	}
	h.Logger.Info().Int64("inserted", inserted).Msg("seeded cases")
	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
