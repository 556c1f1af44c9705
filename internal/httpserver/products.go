package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paintshop/internal/domain"
	productsvc "paintshop/internal/service/product"
)

// listProductsHandler serves the storefront listing. category may repeat or hold a
// comma-separated list.
func listProductsHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q, verr := parseProductQuery(c)
		if verr != nil {
			writeError(c, logger, verr)
			return
		}
		products, err := svc.Search(c.Request.Context(), q)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": toProductViews(products), "total": len(products)})
	}
}

func parseProductQuery(c *gin.Context) (productsvc.Query, error) {
	q := productsvc.Query{
		Text: c.Query("q"),
		Sort: c.Query("sort"),
	}
	for _, raw := range c.QueryArray("category") {
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				q.Categories = append(q.Categories, domain.Category(part))
			}
		}
	}
	verr := &domain.ValidationError{Fields: map[string]string{}}
	q.MinPrice = parsePrice(c.Query("minPrice"), "minPrice", verr)
	q.MaxPrice = parsePrice(c.Query("maxPrice"), "maxPrice", verr)
	if len(verr.Fields) > 0 {
		return q, verr
	}
	return q, nil
}

func parsePrice(raw, field string, verr *domain.ValidationError) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		verr.Fields[field] = "must be a number"
		return nil
	}
	return &d
}

func featuredProductsHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.ListFeatured(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": toProductViews(products)})
	}
}

func getProductHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toProductView(*p))
	}
}

func relatedProductsHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := svc.Related(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": toProductViews(products)})
	}
}

func listCategoriesHandler(svc CategoryService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		cats, err := svc.List(c.Request.Context())
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": cats})
	}
}

func adminProductsHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := productsvc.AdminQuery{
			Text:     c.Query("q"),
			Category: domain.Category(c.Query("category")),
			Stock:    domain.StockStatus(c.Query("stock")),
		}
		products, err := svc.AdminSearch(c.Request.Context(), actorFrom(c), q)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"products": toProductViews(products), "total": len(products)})
	}
}

func createProductHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in productsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		p, err := svc.Create(c.Request.Context(), actorFrom(c), in)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, toProductView(*p))
	}
}

func updateProductHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch productsvc.Patch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, "invalid request body")
			return
		}
		p, err := svc.Update(c.Request.Context(), actorFrom(c), c.Param("id"), patch)
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toProductView(*p))
	}
}

func deleteProductHandler(svc ProductService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), actorFrom(c), c.Param("id")); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
