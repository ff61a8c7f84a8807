package http

import (
	stdhttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/jhoicas/stock-sync/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC *stock.UseCase
	Metrics stdhttp.Handler // opcional: exposición Prometheus en /metrics
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics))
	}

	api := app.Group("/api")

	stockGroup := api.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Get("/", stockHandler.Get)
	stockGroup.Post("/items", stockHandler.AddItem)
	stockGroup.Post("/delete-items", stockHandler.DeleteItems)
	stockGroup.Get("/report.pdf", stockHandler.Report)
}
