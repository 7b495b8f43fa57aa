package httpserver

import (
	"context"
	"log"
	"time"

	cartagg "milsabores/internal/cart"
	"milsabores/internal/domain"
	cartsvc "milsabores/internal/service/cart"
	pricingsvc "milsabores/internal/service/pricing"
	usersvc "milsabores/internal/service/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserService covers registration, sessions and account administration.
type UserService interface {
	Register(ctx context.Context, in usersvc.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Logout(ctx context.Context, token string)
	UpdateProfile(ctx context.Context, userID string, in usersvc.UpdateProfileInput) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, userID string) error
	AccessTTLSeconds() int
}

// GuestService hands out cart-owner tokens for shoppers without accounts.
type GuestService interface {
	Issue(ctx context.Context) (token, ownerKey string, err error)
	LookupByToken(ctx context.Context, token string) (string, error)
	TTLSeconds() int
}

// CatalogService exposes the product catalog.
type CatalogService interface {
	List(ctx context.Context) ([]domain.Product, error)
	ListByCategory(ctx context.Context, category string) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

// CartService mutates and reads per-owner carts.
type CartService interface {
	Get(ctx context.Context, owner string) (*cartsvc.View, error)
	AddProduct(ctx context.Context, owner, productID string, quantity int) (*cartsvc.View, error)
	AddInline(ctx context.Context, owner string, p cartagg.InlineProduct, quantity int) (*cartsvc.View, error)
	UpdateQuantity(ctx context.Context, owner, productID string, delta int) (*cartsvc.View, error)
	Remove(ctx context.Context, owner, productID string) (*cartsvc.View, error)
	Clear(ctx context.Context, owner string) error
}

// PricingService applies the discount rules to a cart.
type PricingService interface {
	PriceCart(ctx context.Context, owner, userID, manualCode string) (*pricingsvc.PricedCart, error)
	ActiveDiscounts(ctx context.Context, userID string) ([]domain.ActiveDiscount, error)
}

// OrderService turns priced carts into orders.
type OrderService interface {
	Checkout(ctx context.Context, owner, userID, manualCode string) (*domain.Order, error)
	Get(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}

// Deps bundles the services the router needs.
type Deps struct {
	UserSvc    UserService
	GuestSvc   GuestService
	CatalogSvc CatalogService
	CartSvc    CartService
	PricingSvc PricingService
	OrderSvc   OrderService
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	if err := registerValidations(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", registerHandler(deps.UserSvc))
	auth.POST("/login", loginHandler(deps.UserSvc))
	auth.POST("/guest", guestTokenHandler(deps.GuestSvc))
	auth.POST("/logout", logoutHandler(deps.UserSvc))
	auth.GET("/me", requireUser(deps), meHandler())
	auth.PUT("/me", requireUser(deps), updateProfileHandler(deps.UserSvc))

	products := api.Group("/products")
	products.GET("", listProductsHandler(deps.CatalogSvc))
	products.GET("/:id", getProductHandler(deps.CatalogSvc))

	cart := api.Group("/cart", requireIdentity(deps))
	cart.GET("", getCartHandler(deps.CartSvc))
	cart.POST("/items", addCartItemHandler(deps.CartSvc))
	cart.PATCH("/items/:productId", updateCartItemHandler(deps.CartSvc))
	cart.DELETE("/items/:productId", removeCartItemHandler(deps.CartSvc))
	cart.DELETE("", clearCartHandler(deps.CartSvc))
	cart.GET("/pricing", pricedCartHandler(deps.PricingSvc))

	api.GET("/discounts/active", requireUser(deps), activeDiscountsHandler(deps.PricingSvc))

	orders := api.Group("/orders", requireUser(deps))
	orders.POST("", checkoutHandler(deps.OrderSvc))
	orders.GET("", listOrdersHandler(deps.OrderSvc))
	orders.GET("/:id", getOrderHandler(deps.OrderSvc))

	admin := api.Group("/admin", requireUser(deps), requireAdmin())
	admin.GET("/users", listUsersHandler(deps.UserSvc))
	admin.GET("/users/:id", getUserHandler(deps.UserSvc))
	admin.DELETE("/users/:id", deleteUserHandler(deps.UserSvc))

	return router, nil
}
