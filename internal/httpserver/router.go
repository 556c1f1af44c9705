package httpserver

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paintshop/internal/domain"
	"paintshop/internal/pricing"
	adminsvc "paintshop/internal/service/admin"
	cartsvc "paintshop/internal/service/cart"
	categorysvc "paintshop/internal/service/category"
	checkoutsvc "paintshop/internal/service/checkout"
	productsvc "paintshop/internal/service/product"
	sessionsvc "paintshop/internal/service/session"
)

type ProductService interface {
	Search(ctx context.Context, q productsvc.Query) ([]domain.Product, error)
	ListFeatured(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Related(ctx context.Context, id string) ([]domain.Product, error)
	AdminSearch(ctx context.Context, actor domain.Actor, q productsvc.AdminQuery) ([]domain.Product, error)
	Create(ctx context.Context, actor domain.Actor, in productsvc.Input) (*domain.Product, error)
	Update(ctx context.Context, actor domain.Actor, id string, patch productsvc.Patch) (*domain.Product, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}

type CategoryService interface {
	List(ctx context.Context) ([]categorysvc.Summary, error)
}

type CartService interface {
	Get(ctx context.Context, actor domain.Actor) (*domain.Cart, error)
	AddItem(ctx context.Context, actor domain.Actor, in cartsvc.AddInput) (*domain.Cart, error)
	SetQuantity(ctx context.Context, actor domain.Actor, productID, color string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, actor domain.Actor, productID, color string) (*domain.Cart, error)
	Clear(ctx context.Context, actor domain.Actor) (*domain.Cart, error)
	ApplyPromo(ctx context.Context, actor domain.Actor, code string) (*domain.Cart, error)
	RemovePromo(ctx context.Context, actor domain.Actor) (*domain.Cart, error)
	Merge(ctx context.Context, guestID, userID string) (*domain.Cart, error)
}

type SessionService interface {
	Login(ctx context.Context, in sessionsvc.LoginInput) (*sessionsvc.Session, error)
	Register(ctx context.Context, in sessionsvc.RegisterInput) (*sessionsvc.Session, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	TokenTTLSeconds() int
}

type GuestService interface {
	Issue() (token, guestID string, err error)
	Lookup(token string) (string, error)
	TTLSeconds() int
}

type CheckoutService interface {
	Checkout(ctx context.Context, actor domain.Actor, form checkoutsvc.Form) (*domain.Order, error)
	ListOrders(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
	GetOrder(ctx context.Context, actor domain.Actor, id string) (*domain.Order, error)
}

type AdminService interface {
	Overview(ctx context.Context, actor domain.Actor) (*adminsvc.Overview, error)
	Orders(ctx context.Context, actor domain.Actor) ([]domain.Order, error)
	ExportCatalog(ctx context.Context, actor domain.Actor, w io.Writer) error
}

// CartQuoter prices a cart for the cart page.
type CartQuoter interface {
	CartQuote(cart *domain.Cart) pricing.Quote
}

// Deps holds the services the router exposes.
type Deps struct {
	ProductSvc  ProductService
	CategorySvc CategoryService
	CartSvc     CartService
	SessionSvc  SessionService
	GuestSvc    GuestService
	CheckoutSvc CheckoutService
	AdminSvc    AdminService
	Pricing     CartQuoter
}

func (d Deps) validate() error {
	switch {
	case d.ProductSvc == nil:
		return errors.New("product service is required")
	case d.CategorySvc == nil:
		return errors.New("category service is required")
	case d.CartSvc == nil:
		return errors.New("cart service is required")
	case d.SessionSvc == nil:
		return errors.New("session service is required")
	case d.GuestSvc == nil:
		return errors.New("guest service is required")
	case d.CheckoutSvc == nil:
		return errors.New("checkout service is required")
	case d.AdminSvc == nil:
		return errors.New("admin service is required")
	case d.Pricing == nil:
		return errors.New("pricing is required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db Pinger, deps Deps, corsOrigins []string) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(accessLog(logger), gin.Recovery(), cors.New(corsConfig(corsOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api", identityMiddleware(deps.SessionSvc, deps.GuestSvc, logger))

	api.GET("/products", listProductsHandler(deps.ProductSvc, logger))
	api.GET("/products/featured", featuredProductsHandler(deps.ProductSvc, logger))
	api.GET("/products/:id", getProductHandler(deps.ProductSvc, logger))
	api.GET("/products/:id/related", relatedProductsHandler(deps.ProductSvc, logger))
	api.GET("/categories", listCategoriesHandler(deps.CategorySvc, logger))

	auth := api.Group("/auth")
	auth.POST("/guest", guestHandler(deps.GuestSvc, logger))
	auth.POST("/login", loginHandler(deps.SessionSvc, deps.CartSvc, logger))
	auth.POST("/register", registerHandler(deps.SessionSvc, deps.CartSvc, logger))
	auth.POST("/logout", requireUser(logger), logoutHandler(deps.SessionSvc, logger))
	api.GET("/me", requireUser(logger), meHandler())

	cart := api.Group("/cart", requireIdentity(logger))
	cart.GET("", getCartHandler(deps.CartSvc, deps.Pricing, logger))
	cart.DELETE("", clearCartHandler(deps.CartSvc, deps.Pricing, logger))
	cart.POST("/items", addCartItemHandler(deps.CartSvc, deps.Pricing, logger))
	cart.PUT("/items/:productId", setCartItemHandler(deps.CartSvc, deps.Pricing, logger))
	cart.DELETE("/items/:productId", removeCartItemHandler(deps.CartSvc, deps.Pricing, logger))
	cart.POST("/promo", applyPromoHandler(deps.CartSvc, deps.Pricing, logger))
	cart.DELETE("/promo", removePromoHandler(deps.CartSvc, deps.Pricing, logger))
	cart.GET("/quote", quoteHandler(deps.CartSvc, deps.Pricing, logger))

	api.POST("/checkout", requireUser(logger), checkoutHandler(deps.CheckoutSvc, logger))
	api.GET("/orders", requireUser(logger), listOrdersHandler(deps.CheckoutSvc, logger))
	api.GET("/orders/:id", requireUser(logger), getOrderHandler(deps.CheckoutSvc, logger))

	admin := api.Group("/admin", requireAdmin(logger))
	admin.GET("/overview", overviewHandler(deps.AdminSvc, logger))
	admin.GET("/orders", adminOrdersHandler(deps.AdminSvc, logger))
	admin.GET("/products", adminProductsHandler(deps.ProductSvc, logger))
	admin.GET("/products/export", exportProductsHandler(deps.AdminSvc, logger))
	admin.POST("/products", createProductHandler(deps.ProductSvc, logger))
	admin.PATCH("/products/:id", updateProductHandler(deps.ProductSvc, logger))
	admin.DELETE("/products/:id", deleteProductHandler(deps.ProductSvc, logger))

	return router, nil
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", guestTokenHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

// accessLog writes one structured line per request.
func accessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
