package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"connectfarma-backend/internal/domain"
)

func (h *Handler) ListFarmers(c *gin.Context) {
	farmers, err := h.svc.Payouts.ListFarmers(c.Request.Context(), actorFrom(c), domain.PayoutStatus(c.Query("payout_status")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if farmers == nil {
		farmers = []domain.User{}
	}
	c.JSON(http.StatusOK, farmers)
}

func (h *Handler) ApprovePayout(c *gin.Context) {
	farmerID := c.Param("farmerId")
	if err := h.svc.Payouts.ApprovePayout(c.Request.Context(), actorFrom(c), farmerID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "farmerId": farmerID, "payoutStatus": domain.PayoutApproved})
}

type approveProductsRequest struct {
	ProductIDs []string `json:"productIds"`
}

func (h *Handler) ApproveProducts(c *gin.Context) {
	var req approveProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	n, err := h.svc.Catalog.ApproveProducts(c.Request.Context(), actorFrom(c), req.ProductIDs)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "approved": n})
}
