package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/usecase"
	"github.com/jhoicas/kardex-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine        *inventory.MovementEngine
	Replenishment *inventory.ReplenishmentUseCase
	ProductUC     *usecase.ProductUseCase
	JWTSecret     string
	JWTIssuer     string
	// Metrics se expone en /metrics cuando no es nil.
	Metrics nethttp.Handler
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse, jwt.RoleSeller)
	adminOnly := RequireRole(jwt.RoleAdmin)
	stockKeepers := RequireRole(jwt.RoleAdmin, jwt.RoleWarehouse)
	sellers := RequireRole(jwt.RoleAdmin, jwt.RoleSeller)

	inventoryHandler := NewInventoryHandler(deps.Engine, deps.Replenishment)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Get("/:id/stock", anyRole, inventoryHandler.GetStock)
	products.Get("/:id/ledger", anyRole, inventoryHandler.GetLedger)
	products.Get("/:id/reconcile", adminOnly, inventoryHandler.Reconcile)

	// Purchases
	purchases := protected.Group("/purchases", stockKeepers)
	purchases.Post("/", inventoryHandler.CreatePurchase)
	purchases.Post("/:id/complete", inventoryHandler.CompletePurchase)
	purchases.Post("/:id/cancel", inventoryHandler.CancelPurchase)

	// Sales
	protected.Post("/sales", sellers, inventoryHandler.CreateSale)

	// Adjustments y reposición
	invGroup := protected.Group("/inventory", stockKeepers)
	invGroup.Post("/adjustments", inventoryHandler.CreateAdjustment)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)

	// Transfers
	transfers := protected.Group("/transfers", stockKeepers)
	transfers.Post("/", inventoryHandler.CreateTransfer)
	transfers.Post("/:id/complete", inventoryHandler.CompleteTransfer)
	transfers.Post("/:id/cancel", inventoryHandler.CancelTransfer)
}
