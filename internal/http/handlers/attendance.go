package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrportal/hradmin/internal/config"
	"github.com/hrportal/hradmin/internal/domain/attendance"
)

type AttendanceStore interface {
	List(ctx context.Context) ([]attendance.Record, error)
	GetByID(ctx context.Context, id int64) (attendance.Record, error)
	Create(ctx context.Context, req attendance.CreateRequest) (attendance.Record, error)
}

type AttendanceHandler struct {
	repo    AttendanceStore
	reports ReportInvalidator
}

func NewAttendanceHandler(repo AttendanceStore, reports ReportInvalidator) *AttendanceHandler {
	return &AttendanceHandler{repo: repo, reports: reports}
}

// GET /api/Attendance
func (h *AttendanceHandler) List(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	recs, err := h.repo.List(cctx)
	if err != nil {
		RespondInternalErr(ctx, "An error occurred while fetching attendance records", err)
		return
	}

	out := make([]attendance.Response, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ToResponse())
	}

	RespondJSONWithETag(ctx, http.StatusOK, out)
}

// GET /api/Attendance/:id
func (h *AttendanceHandler) Get(ctx *gin.Context) {
	id, ok := parseID(ctx)
	if !ok {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	rec, err := h.repo.GetByID(cctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrNotFound) {
			RespondNotFound(ctx, "Attendance record not found")
			return
		}
		RespondInternalErr(ctx, "An error occurred while fetching attendance record", err)
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, rec.ToResponse())
}

// POST /api/Attendance
func (h *AttendanceHandler) Create(ctx *gin.Context) {
	var req attendance.CreateRequest
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	rec, err := h.repo.Create(cctx, req)
	if err != nil {
		if errors.Is(err, attendance.ErrEmployeeNotFound) {
			RespondNotFound(ctx, "Employee not found")
			return
		}
		RespondInternalErr(ctx, "An error occurred while creating attendance record", err)
		return
	}

	if h.reports != nil {
		ictx, icancel := config.WithTimeout(time.Second)
		h.reports.Invalidate(ictx)
		icancel()
	}

	ctx.Header("Location", "/api/Attendance/"+strconv.FormatInt(rec.ID, 10))
	ctx.JSON(http.StatusCreated, rec.ToResponse())
}
