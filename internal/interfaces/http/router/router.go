package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/furnish/backend/internal/infrastructure/logger"
	"github.com/furnish/backend/internal/interfaces/http/handler"
	"github.com/furnish/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Tenants     *handler.TenantHandler
	Products    *handler.ProductHandler
	Partners    *handler.PartnerHandler
	Orders      *handler.OrderHandler
	Procurement *handler.ProcurementHandler
	Finance     *handler.FinanceHandler
}

// New builds the gin engine with the standard middleware chain and every
// API route mounted under /api/v1. Tenant registration and health probes
// bypass tenant resolution; everything else requires the tenant header.
func New(log *zap.Logger, cors middleware.CORSConfig, h Handlers) *gin.Engine {
	engine := gin.New()

	engine.Use(logger.Recovery(log))
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tenant())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")

	api.POST("/tenants", h.Tenants.Register)

	tenant := api.Group("/tenant")
	{
		tenant.GET("", h.Tenants.Get)
		tenant.PUT("/settings", h.Tenants.UpdateSettings)
		tenant.POST("/suspend", h.Tenants.Suspend)
		tenant.POST("/users", h.Tenants.CreateUser)
		tenant.DELETE("/users/:id", h.Tenants.DeactivateUser)
	}

	products := api.Group("/products")
	{
		products.POST("", h.Products.Create)
		products.GET("", h.Products.List)
		products.GET("/:id", h.Products.Get)
		products.PUT("/:id", h.Products.Update)
		products.DELETE("/:id", h.Products.Deactivate)
	}

	suppliers := api.Group("/suppliers")
	{
		suppliers.POST("", h.Partners.CreateSupplier)
		suppliers.GET("", h.Partners.ListSuppliers)
		suppliers.POST("/:id/block", h.Partners.BlockSupplier)
	}

	channels := api.Group("/channels")
	{
		channels.POST("", h.Partners.CreateChannel)
		channels.GET("", h.Partners.ListChannels)
		channels.PUT("/:id/commission", h.Partners.UpdateChannelCommission)
	}

	customers := api.Group("/customers")
	{
		customers.POST("", h.Partners.CreateCustomer)
		customers.GET("", h.Partners.ListCustomers)
	}

	orders := api.Group("/orders")
	{
		orders.POST("/convert", h.Orders.Convert)
		orders.GET("", h.Orders.List)
		orders.GET("/:id", h.Orders.Get)
		orders.PUT("/:id/status", h.Orders.UpdateStatus)
		orders.POST("/:id/lock", h.Orders.Lock)
		orders.POST("/:id/halt", h.Orders.Halt)
		orders.POST("/:id/resume", h.Orders.Resume)
		orders.POST("/:id/cancel", h.Orders.Cancel)
		orders.POST("/:id/split", h.Procurement.Split)
	}

	purchaseOrders := api.Group("/purchase-orders")
	{
		purchaseOrders.GET("", h.Procurement.ListPOs)
		purchaseOrders.GET("/:id", h.Procurement.GetPO)
		purchaseOrders.GET("/pending-assignments", h.Procurement.ListPendingAssignments)
	}

	finance := api.Group("/finance")
	{
		finance.POST("/accounts", h.Finance.CreateAccount)
		finance.GET("/accounts", h.Finance.ListAccounts)
		finance.POST("/accounts/:id/freeze", h.Finance.FreezeAccount)
		finance.GET("/accounts/:id/transactions", h.Finance.ListTransactions)
		finance.POST("/accounts/:id/transactions", h.Finance.Post)

		finance.POST("/receipt-bills", h.Finance.CreateBill)
		finance.GET("/receipt-bills", h.Finance.ListBills)
		finance.GET("/receipt-bills/:id", h.Finance.GetBill)
		finance.POST("/receipt-bills/:id/submit", h.Finance.SubmitBill)
		finance.POST("/receipt-bills/:id/approved", h.Finance.ApprovalCallback)

		finance.POST("/statements", h.Finance.CreateStatement)
		finance.GET("/statements", h.Finance.ListStatements)
		finance.GET("/statements/:id", h.Finance.GetStatement)

		finance.GET("/exceptions", h.Finance.ListExceptions)
		finance.POST("/exceptions/:id/resolve", h.Finance.ResolveException)

		finance.POST("/payment-plans", h.Finance.GeneratePlan)
		finance.GET("/payment-plans/:orderId", h.Finance.GetPlan)
		finance.POST("/payment-plans/stages/:id/paid", h.Finance.MarkStagePaid)

		finance.GET("/commissions", h.Finance.ListCommissions)
	}

	return engine
}
