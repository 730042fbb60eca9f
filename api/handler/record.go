package handler

import (
	"fmt"
	"net/http"
	"time"

	"contract-registry/api/middleware"
	"contract-registry/api/response"
	"contract-registry/logic/lifecycle"
	"contract-registry/storage/postgres"
	"contract-registry/types"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecordHandler struct {
	repo *postgres.RecordRepo
}

func NewRecordHandler(repo *postgres.RecordRepo) *RecordHandler {
	return &RecordHandler{repo: repo}
}

type recordRequest struct {
	Kind           int     `json:"kind"`
	ProtocolNumber *string `json:"protocol_number"`
	EndDate        string  `json:"end_date"` // YYYY-MM-DD
	NoticeDays     int     `json:"notice_days"`
	AutoRenewDays  *int    `json:"auto_renew_days"`
	Counterparty   string  `json:"counterparty" binding:"required"`
	Subject        string  `json:"subject"`
	Amount         float64 `json:"amount"`
}

func (r *recordRequest) endDate() (*time.Time, error) {
	if r.EndDate == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return nil, fmt.Errorf("end_date must be YYYY-MM-DD")
	}
	return &t, nil
}

// Create registers a new record in Draft.
func (h *RecordHandler) Create(c *gin.Context) {
	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid payload: counterparty is required")
		return
	}
	if req.Kind != types.KindQuote && req.Kind != types.KindContract {
		req.Kind = types.KindContract
	}
	if req.NoticeDays < 0 {
		response.Fail(c, "notice_days must be >= 0")
		return
	}

	end, err := req.endDate()
	if err != nil {
		response.Fail(c, err.Error())
		return
	}

	by := middleware.Username(c)
	now := time.Now()
	rec := &postgres.ContractRecord{
		ID:             uuid.NewString(),
		RecordKind:     req.Kind,
		ProtocolNumber: req.ProtocolNumber,
		Status:         types.StatusDraft,
		EndDate:        end,
		NoticeDays:     req.NoticeDays,
		AutoRenewDays:  req.AutoRenewDays,
		Counterparty:   req.Counterparty,
		Subject:        req.Subject,
		Amount:         req.Amount,
		CreatedAt:      now,
		CreatedBy:      by,
		UpdatedAt:      now,
		UpdatedBy:      by,
	}

	if err := h.repo.Create(c.Request.Context(), rec); err != nil {
		response.Fail(c, "create failed: "+err.Error())
		return
	}
	response.Success(c, rec)
}

func (h *RecordHandler) Get(c *gin.Context) {
	rec, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	if rec == nil {
		response.FailStatus(c, http.StatusNotFound, "record not found")
		return
	}
	response.Success(c, rec)
}

func (h *RecordHandler) List(c *gin.Context) {
	var filter types.RecordFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Fail(c, "invalid filters")
		return
	}

	records, err := h.repo.List(c.Request.Context(), &filter)
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, gin.H{"records": records, "count": len(records)})
}

// Update edits descriptive fields. The protocol number is assigned
// once: a set value never changes, state changes go through Transition.
func (h *RecordHandler) Update(c *gin.Context) {
	rec, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	if rec == nil {
		response.FailStatus(c, http.StatusNotFound, "record not found")
		return
	}

	var req recordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid payload")
		return
	}
	end, err := req.endDate()
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	if req.NoticeDays < 0 {
		response.Fail(c, "notice_days must be >= 0")
		return
	}

	if rec.ProtocolNumber == nil && req.ProtocolNumber != nil {
		rec.ProtocolNumber = req.ProtocolNumber
	}
	rec.EndDate = end
	rec.NoticeDays = req.NoticeDays
	rec.AutoRenewDays = req.AutoRenewDays
	rec.Counterparty = req.Counterparty
	rec.Subject = req.Subject
	rec.Amount = req.Amount
	rec.UpdatedAt = time.Now()
	rec.UpdatedBy = middleware.Username(c)

	if err := h.repo.Save(c.Request.Context(), rec); err != nil {
		response.Fail(c, "update failed: "+err.Error())
		return
	}
	response.Success(c, rec)
}

func (h *RecordHandler) Delete(c *gin.Context) {
	if err := h.repo.SoftDelete(c.Request.Context(), c.Param("id"), middleware.Username(c)); err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, nil)
}

type transitionRequest struct {
	Status int `json:"status" binding:"required"`
}

// Transition applies a user-driven state change (submit, approve,
// activate, suspend, resume, cancel, propose renewal).
func (h *RecordHandler) Transition(c *gin.Context) {
	rec, err := h.repo.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	if rec == nil {
		response.FailStatus(c, http.StatusNotFound, "record not found")
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "status is required")
		return
	}

	if !lifecycle.Allowed(rec.Status, req.Status) {
		response.Fail(c, fmt.Sprintf("transition %s -> %s not allowed",
			types.StatusName(rec.Status), types.StatusName(req.Status)))
		return
	}

	claimed, err := h.repo.ClaimTransition(c.Request.Context(), rec.ID, rec.Status, req.Status,
		middleware.Username(c), time.Now())
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	if !claimed {
		response.FailStatus(c, http.StatusConflict, "record changed state concurrently, reload and retry")
		return
	}

	rec.Status = req.Status
	response.Success(c, rec)
}
