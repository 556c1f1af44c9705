package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"paintshop/internal/domain"
	cartsvc "paintshop/internal/service/cart"
)

type quantityRequest struct {
	Quantity int `json:"quantity"`
}

type promoRequest struct {
	Code string `json:"code"`
}

// cartResponder renders the cart after an operation, priced for the cart page.
func cartResponder(quoter CartQuoter, logger *zap.Logger) func(*gin.Context, *domain.Cart, error) {
	return func(c *gin.Context, cart *domain.Cart, err error) {
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toCartView(cart, quoter.CartQuote(cart)))
	}
}

func getCartHandler(svc CartService, quoter CartQuoter, logger *zap.Logger) gin.HandlerFunc {
	respond := cartResponder(quoter, logger)
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), actorFrom(c))
		respond(c, cart, err)
	}
}

func clearCartHandler(svc CartService, quoter CartQuoter, logger *zap.Logger) gin.HandlerFunc {
	respond := cartResponder(quoter, logger)
	return func(c *gin.Context) {
		cart, err := svc.Clear(c.Request.Context(), actorFrom(c))
		respond(c, cart, err)
	}
}

func addCartItemHandler(svc CartService, quoter CartQuoter, logger *zap.Logger) gin.HandlerFunc {
	respond := cartResponder(quoter, logger)
	return func(c *gin.Context) {
		var in cartsvc.AddInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		cart, err := svc.AddItem(c.Request.Context(), actorFrom(c), in)
		respond(c, cart, err)
	}
}

func setCartItemHandler(svc CartService, quoter CartQuoter, logger *zap.Logger) gin.HandlerFunc {
	respond := cartResponder(quoter, logger)
	return func(c *gin.Context) {
		var req quantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		cart, err := svc.SetQuantity(c.Request.Context(), actorFrom(c), c.Param("productId"), c.Query("color"), req.Quantity)
		respond(c, cart, err)
	}
}

func removeCartItemHandler(svc CartService, quoter CartQuoter, logger *zap.Logger) gin.HandlerFunc {
	respond := cartResponder(quoter, logger)
	return func(c *gin.Context) {
		cart, err := svc.RemoveItem(c.Request.Context(), actorFrom(c), c.Param("productId"), c.Query("color"))
		respond(c, cart, err)
	}
}

func applyPromoHandler(svc CartService, quoter CartQuoter, logger *zap.Logger) gin.HandlerFunc {
	respond := cartResponder(quoter, logger)
	return func(c *gin.Context) {
		var req promoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		cart, err := svc.ApplyPromo(c.Request.Context(), actorFrom(c), req.Code)
		respond(c, cart, err)
	}
}

func removePromoHandler(svc CartService, quoter CartQuoter, logger *zap.Logger) gin.HandlerFunc {
	respond := cartResponder(quoter, logger)
	return func(c *gin.Context) {
		cart, err := svc.RemovePromo(c.Request.Context(), actorFrom(c))
		respond(c, cart, err)
	}
}

func quoteHandler(svc CartService, quoter CartQuoter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := svc.Get(c.Request.Context(), actorFrom(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toQuoteView(quoter.CartQuote(cart)))
	}
}
