package http

import (
	"errors"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/jhoicas/reventa-inventario/internal/application/dto"
	"github.com/jhoicas/reventa-inventario/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Products  ProductService
	Purchases PurchaseService
	Sales     SalesService
	Stats     InventoryStats
	Reports   InventoryReporter
	// JWTSecret vacío deja /api sin autenticación.
	JWTSecret string
}

// AppOptions configuración de la app Fiber.
type AppOptions struct {
	Name        string
	CORSOrigins string
	SwaggerFile string // vacío = sin /docs
	BodyLimit   int
	Log         zerolog.Logger
}

// NewApp construye la app Fiber con middlewares, /health, /docs y las rutas de la API.
func NewApp(opts AppOptions, deps RouterDeps) *fiber.App {
	if opts.BodyLimit <= 0 {
		opts.BodyLimit = 10 * 1024 * 1024
	}
	app := fiber.New(fiber.Config{
		AppName:      opts.Name,
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: errorHandler,
	})
	app.Use(recover.New())
	app.Use(RequestLogger(opts.Log))
	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	if opts.SwaggerFile != "" {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: opts.SwaggerFile,
			Path:     "docs",
			Title:    opts.Name + " API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": opts.Name})
	})

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	authEnabled := deps.JWTSecret != ""

	var guards []fiber.Handler
	adminOnly := func(c *fiber.Ctx) error { return c.Next() }
	if authEnabled {
		guards = append(guards, AuthMiddleware(deps.JWTSecret))
		adminOnly = RequireRole(jwt.RoleAdmin)
	}
	api := app.Group("/api", guards...)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Products)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	purchases := api.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.Purchases)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)

	sales := api.Group("/sales")
	salesHandler := NewSalesHandler(deps.Sales)
	sales.Post("/preview", salesHandler.Preview)
	sales.Post("/import", salesHandler.Import)
	sales.Delete("/all", adminOnly, salesHandler.DeleteAll)
	sales.Post("/", salesHandler.Create)
	sales.Get("/", salesHandler.List)

	inv := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Stats, deps.Reports)
	inv.Get("/stats", inventoryHandler.Stats)
	inv.Get("/report.pdf", inventoryHandler.ReportPDF)
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: err.Error()})
}
