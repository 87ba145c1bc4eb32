package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/service"
)

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.svc.Catalog.Browse(c.Request.Context(), domain.Category(c.Query("category")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProducts(products))
}

func (h *Handler) GetCart(c *gin.Context) {
	view, err := h.svc.Orders.ViewCart(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCart(view))
}

type cartUpdateRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateCart sets the quantity for one product; zero or less removes it.
func (h *Handler) UpdateCart(c *gin.Context) {
	var req cartUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	total, err := h.svc.Orders.UpdateCart(c.Request.Context(), actorFrom(c), req.ProductID, req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "totalItems": total})
}

type checkoutRequest struct {
	shippingBody
	PaymentMethod string `json:"paymentMethod"`
}

func (h *Handler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	ctx := c.Request.Context()
	actor := actorFrom(c)

	cart, err := h.svc.Orders.LoadCart(ctx, actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	order, err := h.svc.Orders.Checkout(ctx, actor, cart, service.CheckoutInput{
		Shipping: domain.Shipping{
			FullName: req.FullName,
			Mobile:   req.Mobile,
			Address:  req.Address,
			Pincode:  req.Pincode,
		},
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order placed successfully",
		"order":   toOrder(order),
	})
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.svc.Orders.ListOrders(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrder(o))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetOrder(c *gin.Context) {
	conf, err := h.svc.Orders.Confirmation(c.Request.Context(), actorFrom(c), c.Param("orderId"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toConfirmation(conf))
}
