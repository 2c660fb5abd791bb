package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/uwplan/planner-backend/internal/model"
	"github.com/uwplan/planner-backend/internal/response"
	"github.com/uwplan/planner-backend/internal/sequence"
	"github.com/uwplan/planner-backend/internal/service"
	"github.com/uwplan/planner-backend/internal/validator"
)

type catalogService interface {
	ListCourses(ctx context.Context, subject string) ([]model.Course, error)
	GetCourse(ctx context.Context, courseID string) (*service.CourseDetail, error)
	ListCommunications(ctx context.Context) ([]model.Communication, error)
	GetPlans(ctx context.Context) (*model.Plans, error)
	ListSequences() []string
	GetSequence(name string) (model.SequenceMap, error)
}

type programLookup interface {
	GetProgram(ctx context.Context, name string) (*model.Program, error)
}

// CatalogHandler serves the read-only catalog endpoints.
type CatalogHandler struct {
	catalog  catalogService
	programs programLookup
	log      zerolog.Logger
}

func NewCatalogHandler(catalog catalogService, programs programLookup, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog:  catalog,
		programs: programs,
		log:      log.With().Str("component", "catalog_handler").Logger(),
	}
}

type courseQuery struct {
	Subject string `form:"subject" binding:"omitempty,alphanum,max=16"`
}

// ListCourses godoc
// GET /api/v1/courses?subject=CS
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	var q courseQuery
	if fields := validator.BindQuery(c, &q); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	courses, err := h.catalog.ListCourses(c.Request.Context(), strings.ToUpper(q.Subject))
	if err != nil {
		h.internal(c, err, "List courses failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// GetCourse godoc
// GET /api/v1/courses/:id
func (h *CatalogHandler) GetCourse(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	course, err := h.catalog.GetCourse(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrCourseNotFound)
			return
		}
		h.internal(c, err, "Get course failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"course": course})
}

// GetProgram godoc
// GET /api/v1/programs/:name
func (h *CatalogHandler) GetProgram(c *gin.Context) {
	program, err := h.programs.GetProgram(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, service.ErrProgramNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrProgramNotFound)
			return
		}
		h.internal(c, err, "Get program failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"program": program})
}

// ListCommunications godoc
// GET /api/v1/communications
func (h *CatalogHandler) ListCommunications(c *gin.Context) {
	comms, err := h.catalog.ListCommunications(c.Request.Context())
	if err != nil {
		h.internal(c, err, "List communications failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"communications": comms})
}

// GetPlans godoc
// GET /api/v1/plans
func (h *CatalogHandler) GetPlans(c *gin.Context) {
	plans, err := h.catalog.GetPlans(c.Request.Context())
	if err != nil {
		h.internal(c, err, "Get plans failed")
		return
	}
	response.Success(c, http.StatusOK, plans)
}

// ListSequences godoc
// GET /api/v1/sequences
func (h *CatalogHandler) ListSequences(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"sequences": h.catalog.ListSequences()})
}

// GetSequence godoc
// GET /api/v1/sequences/:name
func (h *CatalogHandler) GetSequence(c *gin.Context) {
	name := c.Param("name")
	seq, err := h.catalog.GetSequence(name)
	if err != nil {
		if errors.Is(err, sequence.ErrUnknownSequence) {
			response.Fail(c, http.StatusNotFound, response.ErrUnknownSequence)
			return
		}
		h.internal(c, err, "Get sequence failed")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"name": name, "terms": seq})
}

func (h *CatalogHandler) internal(c *gin.Context, err error, msg string) {
	h.log.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}
