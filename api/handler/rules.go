package handler

import (
	"net/http"
	"strconv"

	"contract-registry/api/response"
	"contract-registry/storage/postgres"
	"contract-registry/types"

	"github.com/gin-gonic/gin"
)

type RuleHandler struct {
	repo *postgres.NotifyRepo
}

func NewRuleHandler(repo *postgres.NotifyRepo) *RuleHandler {
	return &RuleHandler{repo: repo}
}

type ruleRequest struct {
	Code            string             `json:"code" binding:"required"`
	Active          *bool              `json:"active"`
	SubjectTemplate string             `json:"subject_template"`
	Module          string             `json:"module"`
	Recipients      []recipientRequest `json:"recipients"`
}

type recipientRequest struct {
	Kind         int     `json:"kind" binding:"required"`
	DepartmentID *uint   `json:"department_id"`
	RoleName     string  `json:"role_name"`
	UserID       *string `json:"user_id"`
}

func (r *ruleRequest) toModel() *postgres.NotificationRule {
	rule := &postgres.NotificationRule{
		Code:            r.Code,
		Active:          true,
		SubjectTemplate: r.SubjectTemplate,
		Module:          r.Module,
	}
	if r.Active != nil {
		rule.Active = *r.Active
	}
	for _, rec := range r.Recipients {
		rule.Recipients = append(rule.Recipients, postgres.RecipientRule{
			Kind:         rec.Kind,
			DepartmentID: rec.DepartmentID,
			RoleName:     rec.RoleName,
			UserID:       rec.UserID,
		})
	}
	return rule
}

func validRecipients(recs []recipientRequest) bool {
	for _, r := range recs {
		switch r.Kind {
		case types.RecipientDepartment:
			if r.DepartmentID == nil {
				return false
			}
		case types.RecipientRole:
			if r.RoleName == "" {
				return false
			}
		case types.RecipientUser:
			if r.UserID == nil {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func (h *RuleHandler) Create(c *gin.Context) {
	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "code is required")
		return
	}
	if !validRecipients(req.Recipients) {
		response.Fail(c, "each recipient needs the reference matching its kind")
		return
	}

	rule := req.toModel()
	if err := h.repo.CreateRule(c.Request.Context(), rule); err != nil {
		response.Fail(c, "create failed: "+err.Error())
		return
	}
	response.Success(c, rule)
}

func (h *RuleHandler) List(c *gin.Context) {
	rules, err := h.repo.ListRules(c.Request.Context())
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, gin.H{"rules": rules, "count": len(rules)})
}

func (h *RuleHandler) Update(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Fail(c, "invalid rule id")
		return
	}

	existing, err := h.repo.GetRule(c.Request.Context(), uint(id))
	if err != nil {
		response.Fail(c, err.Error())
		return
	}
	if existing == nil {
		response.FailStatus(c, http.StatusNotFound, "rule not found")
		return
	}

	var req ruleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "code is required")
		return
	}
	if !validRecipients(req.Recipients) {
		response.Fail(c, "each recipient needs the reference matching its kind")
		return
	}

	rule := req.toModel()
	rule.ID = existing.ID
	for i := range rule.Recipients {
		rule.Recipients[i].RuleID = existing.ID
	}

	if err := h.repo.SaveRule(c.Request.Context(), rule); err != nil {
		response.Fail(c, "update failed: "+err.Error())
		return
	}
	response.Success(c, rule)
}

func (h *RuleHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Fail(c, "invalid rule id")
		return
	}
	if err := h.repo.DeleteRule(c.Request.Context(), uint(id)); err != nil {
		response.Fail(c, err.Error())
		return
	}
	response.Success(c, nil)
}
