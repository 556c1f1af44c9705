package httpserver

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func overviewHandler(svc AdminService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		o, err := svc.Overview(c.Request.Context(), actorFrom(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, toOverviewView(o))
	}
}

func adminOrdersHandler(svc AdminService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.Orders(c.Request.Context(), actorFrom(c))
		if err != nil {
			writeError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": toOrderViews(orders), "total": len(orders)})
	}
}

// exportProductsHandler buffers the workbook so a failed export still gets a JSON error.
func exportProductsHandler(svc AdminService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := svc.ExportCatalog(c.Request.Context(), actorFrom(c), &buf); err != nil {
			writeError(c, logger, err)
			return
		}
		c.Header("Content-Disposition", "attachment; filename=products.xlsx")
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
