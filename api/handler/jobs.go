package handler

import (
	"context"
	"time"

	"contract-registry/api/response"
	"contract-registry/types"

	"github.com/gin-gonic/gin"
)

// ScanRunner is the engine surface the manual triggers call.
// *service.Scanner implements it.
type ScanRunner interface {
	RunScheduledTransitions(ctx context.Context, today time.Time) ([]types.StateChangeResult, error)
	RunAutomaticRenewals(ctx context.Context, today time.Time) ([]types.StateChangeResult, error)
}

type JobHandler struct {
	scanner ScanRunner
}

func NewJobHandler(scanner ScanRunner) *JobHandler {
	return &JobHandler{scanner: scanner}
}

// RunTransitions re-triggers the daily pass by hand, typically after
// the scheduled job exhausted its retries.
func (h *JobHandler) RunTransitions(c *gin.Context) {
	results, err := h.scanner.RunScheduledTransitions(c.Request.Context(), time.Now())
	if err != nil {
		response.Fail(c, "scan failed: "+err.Error())
		return
	}
	response.Success(c, gin.H{"changed": len(results), "results": results})
}

// RunRenewals triggers a renewal-only pass.
func (h *JobHandler) RunRenewals(c *gin.Context) {
	results, err := h.scanner.RunAutomaticRenewals(c.Request.Context(), time.Now())
	if err != nil {
		response.Fail(c, "renewal pass failed: "+err.Error())
		return
	}
	response.Success(c, gin.H{"renewed": len(results), "results": results})
}
