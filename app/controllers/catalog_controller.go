package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/soat-quoter/app/responses"
	"github.com/soat-quoter/app/services"
	"github.com/soat-quoter/internal/quoting"
	"github.com/soat-quoter/internal/search"
	"go.uber.org/zap"
)

// CatalogController serves the lists the quote form is built from.
type CatalogController struct {
	quoteService *services.QuoteService
	logger       *zap.Logger
}

func NewCatalogController(quoteService *services.QuoteService, logger *zap.Logger) *CatalogController {
	return &CatalogController{
		quoteService: quoteService,
		logger:       logger,
	}
}

func (cc *CatalogController) Classes(c *gin.Context) {
	c.JSON(http.StatusOK, responses.ClassesResponse{
		Classes: cc.quoteService.Engine().VehicleClasses(),
	})
}

func (cc *CatalogController) Vehicles(c *gin.Context) {
	catalog := cc.quoteService.Engine().VehicleCatalog()
	c.JSON(http.StatusOK, responses.VehiclesResponse{
		Brands:  quoting.Brands(catalog),
		Catalog: catalog,
	})
}

// Search looks up brand/model pairs: ?q=&brand=&limit=
func (cc *CatalogController) Search(c *gin.Context) {
	q := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	matches := cc.quoteService.Catalog().Search(c.Request.Context(), q, c.Query("brand"), limit)
	if matches == nil {
		matches = []search.Match{}
	}
	c.JSON(http.StatusOK, responses.SearchResponse{Query: q, Matches: matches})
}
