package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/shayfa/internal/api"
	"github.com/mrlokans/shayfa/internal/auth"
	"github.com/mrlokans/shayfa/internal/cart"
	"github.com/mrlokans/shayfa/internal/entities"
	"github.com/mrlokans/shayfa/internal/payment"
)

// CartController serves the cart of the caller, or the guest cart when anonymous.
type CartController struct {
	client *api.Client
	carts  *cart.Registry
}

func NewCartController(client *api.Client, carts *cart.Registry) *CartController {
	return &CartController{client: client, carts: carts}
}

type addItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

type updateQtyRequest struct {
	Qty *int `json:"qty" binding:"required"`
}

func (cc *CartController) engine(c *gin.Context) (*cart.Engine, bool) {
	engine, err := cc.carts.For(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		respondDomainError(c, err, "load cart")
		return nil, false
	}
	return engine, true
}

// Get handles GET /api/cart.
func (cc *CartController) Get(c *gin.Context) {
	engine, ok := cc.engine(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, engine.Cart())
}

// AddItem handles POST /api/cart/items.
func (cc *CartController) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "productId is required")
		return
	}

	product, err := api.GetAs[entities.Product](c.Request.Context(), cc.client, entities.CollectionProducts, req.ProductID)
	if err != nil {
		respondDomainError(c, err, "load product")
		return
	}

	engine, ok := cc.engine(c)
	if !ok {
		return
	}
	updated, err := engine.AddToCart(c.Request.Context(), *product)
	if err != nil {
		respondDomainError(c, err, "add to cart")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// UpdateItem handles PATCH /api/cart/items/:id. A qty of zero or less removes the item.
func (cc *CartController) UpdateItem(c *gin.Context) {
	var req updateQtyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "qty is required")
		return
	}

	engine, ok := cc.engine(c)
	if !ok {
		return
	}
	updated, err := engine.UpdateQty(c.Request.Context(), c.Param("id"), *req.Qty)
	if err != nil {
		respondDomainError(c, err, "update cart item")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// RemoveItem handles DELETE /api/cart/items/:id.
func (cc *CartController) RemoveItem(c *gin.Context) {
	engine, ok := cc.engine(c)
	if !ok {
		return
	}
	updated, err := engine.RemoveFromCart(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondDomainError(c, err, "remove cart item")
		return
	}
	c.JSON(http.StatusOK, updated)
}

// Checkout handles POST /api/cart/checkout. The body is optional; missing payment
// details are rejected by the gateway with 402.
func (cc *CartController) Checkout(c *gin.Context) {
	var details *payment.PaymentDetails
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		var bound payment.PaymentDetails
		err := c.ShouldBindJSON(&bound)
		switch {
		case err == nil:
			details = &bound
		case !errors.Is(err, io.EOF):
			respondBadRequest(c, "invalid payment details")
			return
		}
	}

	engine, ok := cc.engine(c)
	if !ok {
		return
	}
	order, err := engine.Checkout(c.Request.Context(), details)
	if err != nil {
		respondDomainError(c, err, "checkout")
		return
	}
	c.JSON(http.StatusCreated, order)
}
