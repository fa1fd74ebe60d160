package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrportal/hradmin/internal/config"
	"github.com/hrportal/hradmin/internal/domain/employee"
)

type EmployeeStore interface {
	List(ctx context.Context) ([]employee.Employee, error)
	GetByID(ctx context.Context, id int64) (employee.Employee, error)
	Create(ctx context.Context, req employee.UpsertRequest) (employee.Employee, error)
	Update(ctx context.Context, id int64, req employee.UpsertRequest) (employee.Employee, error)
	Delete(ctx context.Context, id int64) error
}

// ReportInvalidator drops cached reports after data changes.
type ReportInvalidator interface {
	Invalidate(ctx context.Context)
}

type EmployeesHandler struct {
	repo    EmployeeStore
	reports ReportInvalidator
}

func NewEmployeesHandler(repo EmployeeStore, reports ReportInvalidator) *EmployeesHandler {
	return &EmployeesHandler{repo: repo, reports: reports}
}

func parseID(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id < 1 {
		RespondBadRequest(ctx, "id must be a positive integer", nil)
		return 0, false
	}
	return id, true
}

func (h *EmployeesHandler) invalidate() {
	if h.reports == nil {
		return
	}
	cctx, cancel := config.WithTimeout(time.Second)
	defer cancel()
	h.reports.Invalidate(cctx)
}

// GET /api/employees
func (h *EmployeesHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	items, err := h.repo.List(cctx)
	if err != nil {
		RespondInternalErr(ctx, "Could not list employees", err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, items)
}

// GET /api/employees/:id
func (h *EmployeesHandler) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	e, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternalErr(ctx, "Could not fetch employee", err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, e)
}

// POST /api/employees
func (h *EmployeesHandler) Create(ctx *gin.Context) {
	var req employee.UpsertRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	e, err := h.repo.Create(cctx, req)
	if err != nil {
		RespondInternalErr(ctx, "Could not create employee", err)
		return
	}
	h.invalidate()

	ctx.Header("Location", "/api/employees/"+strconv.FormatInt(e.ID, 10))
	ctx.JSON(http.StatusCreated, e)
}

// PUT /api/employees/:id
func (h *EmployeesHandler) Update(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	var req employee.UpsertRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	e, err := h.repo.Update(cctx, id, req)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternalErr(ctx, "Could not update employee", err)
		return
	}
	h.invalidate()

	ctx.JSON(http.StatusOK, e)
}

// DELETE /api/employees/:id
func (h *EmployeesHandler) Delete(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	if err := h.repo.Delete(cctx, id); err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternalErr(ctx, "Could not delete employee", err)
		return
	}
	h.invalidate()

	ctx.Status(http.StatusNoContent)
}
