package httpserver

import (
	"net/http"

	cartagg "milsabores/internal/cart"
	"milsabores/internal/domain"
	cartsvc "milsabores/internal/service/cart"

	"github.com/gin-gonic/gin"
)

func getCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := carts.Get(c.Request.Context(), cartOwner(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

type addItemRequest struct {
	ProductID string         `json:"productId"`
	Product   *inlineProduct `json:"product"`
	Quantity  int            `json:"quantity"`
}

type inlineProduct struct {
	ID       string `json:"id" binding:"required"`
	Name     string `json:"nombre"`
	Price    string `json:"precio"`
	Image    string `json:"imagen"`
	Category string `json:"categoria"`
}

// addCartItemHandler accepts either a catalog product id or a full inline
// product payload, matching what the storefront sends.
func addCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var view *cartsvc.View
		var err error
		switch {
		case req.Product != nil:
			view, err = carts.AddInline(c.Request.Context(), cartOwner(c), cartagg.InlineProduct{
				ID:       req.Product.ID,
				Name:     req.Product.Name,
				Price:    req.Product.Price,
				Image:    req.Product.Image,
				Category: req.Product.Category,
			}, req.Quantity)
		case req.ProductID != "":
			view, err = carts.AddProduct(c.Request.Context(), cartOwner(c), req.ProductID, req.Quantity)
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "productId or product is required"})
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

type updateItemRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func updateCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		view, err := carts.UpdateQuantity(c.Request.Context(), cartOwner(c), c.Param("productId"), req.Delta)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func removeCartItemHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := carts.Remove(c.Request.Context(), cartOwner(c), c.Param("productId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func clearCartHandler(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Clear(c.Request.Context(), cartOwner(c)); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// pricedCartHandler returns the cart with the discount rules applied for
// the current user. Guests get their cart back unpriced.
func pricedCartHandler(pricing PricingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := ""
		if u := currentUser(c); u != nil {
			userID = u.ID
		}

		priced, err := pricing.PriceCart(c.Request.Context(), cartOwner(c), userID, c.Query("code"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, priced)
	}
}

func activeDiscountsHandler(pricing PricingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		discounts, err := pricing.ActiveDiscounts(c.Request.Context(), currentUser(c).ID)
		if err != nil {
			respondError(c, err)
			return
		}
		if discounts == nil {
			discounts = []domain.ActiveDiscount{}
		}
		c.JSON(http.StatusOK, gin.H{"discounts": discounts})
	}
}
