package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"connectfarma-backend/internal/domain"
	"connectfarma-backend/internal/service"
)

type Services struct {
	Accounts *service.AccountService
	Catalog  *service.CatalogService
	Orders   *service.OrderService
	Delivery *service.DeliveryService
	Farmers  *service.FarmerService
	Payouts  *service.PayoutService
}

type Handler struct {
	svc    Services
	tokens *Tokens
	logger *zap.Logger
}

func New(svc Services, tokens *Tokens, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, tokens: tokens, logger: logger}
}

// Routes mounts the API under /api.
func (h *Handler) Routes(r gin.IRouter) {
	api := r.Group("/api")
	api.GET("/health", h.Health)

	api.POST("/consumer/register", h.RegisterConsumer)
	api.POST("/consumer/login", h.LoginConsumer)
	api.POST("/farmer/register", h.RegisterFarmer)
	api.POST("/farmer/login", h.LoginFarmer)
	api.POST("/admin/login", h.LoginAdmin)

	api.GET("/products", h.ListProducts)

	auth := api.Group("", AuthMiddleware(h.tokens))
	auth.GET("/profile", h.Profile)

	consumer := auth.Group("", RequireRole(domain.RoleConsumer))
	{
		consumer.GET("/cart", h.GetCart)
		consumer.POST("/cart", h.UpdateCart)
		consumer.POST("/cart/checkout", h.Checkout)
		consumer.GET("/orders", h.ListOrders)
		consumer.GET("/orders/:orderId", h.GetOrder)
	}

	farmer := auth.Group("/farmer", RequireRole(domain.RoleFarmer))
	{
		farmer.GET("/dashboard", h.Dashboard)
		farmer.GET("/products", h.FarmerProducts)
		farmer.POST("/products", h.AddProducts)
		farmer.PUT("/products/:productId", h.UpdateProduct)
		farmer.DELETE("/products/:productId", h.DeleteProduct)
		farmer.GET("/orders", h.FarmerOrders)
		farmer.POST("/orders/:orderId/deliver", h.MarkDelivered)
		farmer.GET("/payments", h.Payments)
		farmer.POST("/payout/request", h.RequestPayout)
		farmer.POST("/payout/collect", h.CollectPayment)
		farmer.GET("/payouts", h.Receipts)
	}

	admin := auth.Group("/admin", RequireRole(domain.RoleAdmin))
	{
		admin.GET("/farmers", h.ListFarmers)
		admin.POST("/farmers/:farmerId/approve-payout", h.ApprovePayout)
		admin.POST("/products/approve", h.ApproveProducts)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "connectfarma"})
}
