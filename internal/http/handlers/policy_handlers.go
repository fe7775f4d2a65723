package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/neuraread/domain"
)

// PolicyHandlers manages the access gate's rule set at runtime
type PolicyHandlers struct {
	policy domain.PolicyService
}

func NewPolicyHandlers(policy domain.PolicyService) *PolicyHandlers {
	return &PolicyHandlers{policy: policy}
}

type policyReq struct {
	Sub string `json:"sub" binding:"required"`
	Obj string `json:"obj" binding:"required"`
	Act string `json:"act" binding:"required"`
}

func (h *PolicyHandlers) List(c *gin.Context) {
	policies, err := h.policy.GetPolicies()
	if err != nil {
		respondError(c, err)
		return
	}
	if policies == nil {
		policies = [][]string{}
	}
	respondOK(c, http.StatusOK, "Policies fetched successfully", gin.H{"policies": policies})
}

func (h *PolicyHandlers) Add(c *gin.Context) {
	var r policyReq
	if !bindJSON(c, &r) {
		return
	}
	if err := h.policy.AddPolicy(r.Sub, r.Obj, r.Act); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PolicyHandlers) Remove(c *gin.Context) {
	var r policyReq
	if !bindJSON(c, &r) {
		return
	}
	if err := h.policy.RemovePolicy(r.Sub, r.Obj, r.Act); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
