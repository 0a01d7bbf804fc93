package routes

import (
	"shopmydish/domain"
	"shopmydish/internal/api/handlers"
	"shopmydish/internal/metrics"
	"shopmydish/internal/middleware"
	"shopmydish/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	CatalogHandler      handlers.CatalogHandler
	DishHandler         handlers.DishHandler
	MenuHandler         handlers.MenuHandler
	ShoppingListHandler handlers.ShoppingListHandler
	BugReportHandler    handlers.BugReportHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
	Metrics             *metrics.Metrics
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	if c.Metrics != nil {
		c.App.Use(c.Metrics.Middleware())
	}
	c.GuestRoute()
	c.Auth()
	c.User()
	c.Products()
	c.Units()
	c.Dishes()
	c.Menus()
	c.ShoppingLists()
	c.BugReports()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": domain.MessageSuccessPing})
	})
	if c.Metrics != nil {
		c.App.Get("/metrics", adaptor.HTTPHandler(c.Metrics.Handler()))
	}
}

func (c *Config) Auth() {
	auth := c.App.Group("/auth")
	{
		auth.Get("/login", c.UserHandler.Login)
		auth.Get("/callback", c.UserHandler.Callback)
		auth.Get("/logout", c.UserHandler.Logout)
	}
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users", c.Middleware.AuthMiddleware(c.JWTService))
	user.Get("/me", c.UserHandler.Me)
}

func (c *Config) Products() {
	products := c.App.Group("/api/v1/products", c.Middleware.AuthMiddleware(c.JWTService))
	products.Get("", c.CatalogHandler.GetProducts)
	products.Post("", c.CatalogHandler.CreateProduct)
	products.Patch("/:id/favorite", c.CatalogHandler.ToggleFavorite)
	products.Delete("/:id", c.CatalogHandler.DeleteProduct)
}

func (c *Config) Units() {
	units := c.App.Group("/api/v1/units", c.Middleware.AuthMiddleware(c.JWTService))
	units.Get("", c.CatalogHandler.GetUnits)
	units.Post("", c.CatalogHandler.CreateUnit)
	units.Put("/:id", c.CatalogHandler.UpdateUnit)
	units.Delete("/:id", c.CatalogHandler.DeleteUnit)
}

func (c *Config) Dishes() {
	dishes := c.App.Group("/api/v1/dishes", c.Middleware.AuthMiddleware(c.JWTService))
	dishes.Get("", c.DishHandler.GetDishes)
	dishes.Post("", c.DishHandler.CreateDish)
	dishes.Get("/:id", c.DishHandler.GetDishDetail)
	dishes.Put("/:id", c.DishHandler.UpdateDish)
	dishes.Delete("/:id", c.DishHandler.DeleteDish)
	dishes.Post("/:id/image", c.DishHandler.UploadDishImage)

	lines := c.App.Group("/api/v1/dish-products", c.Middleware.AuthMiddleware(c.JWTService))
	lines.Put("/:id", c.DishHandler.UpdateDishProduct)
	lines.Delete("/:id", c.DishHandler.DeleteDishProduct)
}

func (c *Config) Menus() {
	menus := c.App.Group("/api/v1/menus", c.Middleware.AuthMiddleware(c.JWTService))
	menus.Get("", c.MenuHandler.GetMenus)
	menus.Post("", c.MenuHandler.CreateMenu)
	menus.Get("/:id", c.MenuHandler.GetMenuDetail)
	menus.Put("/:id", c.MenuHandler.UpdateMenu)
	menus.Delete("/:id", c.MenuHandler.DeleteMenu)
	menus.Post("/:id/dishes", c.MenuHandler.AddDish)
	menus.Delete("/:id/dishes/:dish_id", c.MenuHandler.RemoveDish)
	menus.Post("/:id/shopping-lists", c.ShoppingListHandler.BuildShoppingList)
}

func (c *Config) ShoppingLists() {
	c.App.Get("/create-shoppinglist/:menu_id/", c.Middleware.AuthMiddleware(c.JWTService), c.ShoppingListHandler.CreateShoppingList)

	lists := c.App.Group("/api/v1/shopping-lists", c.Middleware.AuthMiddleware(c.JWTService))
	lists.Get("", c.ShoppingListHandler.GetShoppingLists)
	lists.Get("/:id", c.ShoppingListHandler.GetShoppingListDetail)
	lists.Delete("/:id", c.ShoppingListHandler.DeleteShoppingList)
	lists.Post("/:id/items", c.ShoppingListHandler.AddItem)

	items := c.App.Group("/api/v1/shopping-list-items", c.Middleware.AuthMiddleware(c.JWTService))
	items.Put("/:id", c.ShoppingListHandler.UpdateItem)
	items.Delete("/:id", c.ShoppingListHandler.DeleteItem)
}

func (c *Config) BugReports() {
	reports := c.App.Group("/api/v1/bug-reports", c.Middleware.AuthMiddleware(c.JWTService))
	reports.Post("", c.BugReportHandler.CreateBugReport)
}
