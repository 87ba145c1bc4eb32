package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/service"
)

func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.svc.Farmers.Dashboard(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboardResponse{
		LiveProducts:     d.LiveProducts,
		LowStockProducts: toProducts(d.LowStockProducts),
		PendingOrders:    d.PendingOrders,
		TotalEarnings:    domain.Money(d.TotalEarnings),
	})
}

func (h *Handler) FarmerProducts(c *gin.Context) {
	products, err := h.svc.Catalog.FarmerProducts(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProducts(products))
}

type addProductsRequest struct {
	Products []productInput `json:"products"`
}

func (h *Handler) AddProducts(c *gin.Context) {
	var req addProductsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	items := make([]service.NewProduct, 0, len(req.Products))
	for _, p := range req.Products {
		items = append(items, service.NewProduct(p))
	}
	res, err := h.svc.Catalog.AddProducts(c.Request.Context(), actorFrom(c), items)
	if err != nil {
		h.respondError(c, err)
		return
	}
	skipped := res.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	c.JSON(http.StatusCreated, gin.H{"added": toProducts(res.Added), "skipped": skipped})
}

type productUpdateRequest struct {
	Price *decimal.Decimal `json:"price"`
	Unit  domain.Unit      `json:"unit"`
	Stock *int             `json:"stock"`
}

func (h *Handler) UpdateProduct(c *gin.Context) {
	var req productUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	if req.Price == nil || req.Stock == nil {
		h.respondError(c, &domain.ValidationError{Fields: []string{"price", "stock"}, Message: "price and stock are required"})
		return
	}
	p, err := h.svc.Catalog.UpdateProduct(c.Request.Context(), actorFrom(c), c.Param("productId"), service.ProductUpdate{
		Price: *req.Price,
		Unit:  req.Unit,
		Stock: *req.Stock,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProduct(p))
}

func (h *Handler) DeleteProduct(c *gin.Context) {
	p, err := h.svc.Catalog.DeleteProduct(c.Request.Context(), actorFrom(c), c.Param("productId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted": p.ID})
}

func (h *Handler) FarmerOrders(c *gin.Context) {
	items, err := h.svc.Farmers.OrderItems(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toLineItems(items))
}

func (h *Handler) MarkDelivered(c *gin.Context) {
	order, err := h.svc.Delivery.MarkDelivered(c.Request.Context(), actorFrom(c), c.Param("orderId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orderId": order.ID, "delivered": order.Delivered})
}

func (h *Handler) Payments(c *gin.Context) {
	st, err := h.svc.Payouts.Unsettled(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toStatement(st))
}

func (h *Handler) RequestPayout(c *gin.Context) {
	if err := h.svc.Payouts.RequestPayout(c.Request.Context(), actorFrom(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "payoutStatus": domain.PayoutRequested})
}

type collectRequest struct {
	BankName      string `json:"bankName"`
	AccountHolder string `json:"accountHolder"`
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
}

func (h *Handler) CollectPayment(c *gin.Context) {
	var req collectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	receipt, err := h.svc.Payouts.CollectPayment(c.Request.Context(), actorFrom(c), domain.BankDetails(req))
	if errors.Is(err, domain.ErrNothingToPay) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "payoutStatus": domain.PayoutNone})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "receipt": toReceipt(receipt)})
}

func (h *Handler) Receipts(c *gin.Context) {
	receipts, err := h.svc.Payouts.Receipts(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]receiptResponse, 0, len(receipts))
	for _, r := range receipts {
		out = append(out, toReceipt(r))
	}
	c.JSON(http.StatusOK, out)
}
