package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopsmart/api/catalog"
	"shopsmart/api/middleware"
	"shopsmart/api/models"
	"shopsmart/api/session"
	"shopsmart/api/utils"
)

// StoreHandlers serves the storefront: browsing the catalog and the
// interactions that emit events.
type StoreHandlers struct {
	Session *session.Session
	Catalog *catalog.Catalog
}

func NewStoreHandlers(s *session.Session, cat *catalog.Catalog) *StoreHandlers {
	return &StoreHandlers{Session: s, Catalog: cat}
}

func (h *StoreHandlers) Register(rg *gin.RouterGroup) {
	store := rg.Group("/store")
	{
		store.GET("/products", h.ListProducts)
		store.GET("/categories", h.ListCategories)
		store.POST("/search", h.Search)
		store.POST("/products/:id/click", h.productAction(h.Session.Click))
		store.POST("/products/:id/view", h.productAction(h.Session.ViewDetails))
		store.POST("/products/:id/cart", h.productAction(h.Session.AddToCart))
		store.GET("/cart", h.Cart)
	}
}

// ListProducts filters the catalog by ?q=. Browsing emits no event.
func (h *StoreHandlers) ListProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.Filter(c.Query("q")))
}

func (h *StoreHandlers) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.Categories())
}

// Search records a committed query. Blank queries are accepted but ignored.
func (h *StoreHandlers) Search(c *gin.Context) {
	var req models.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	event, ok := h.Session.Search(req.Query)
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (h *StoreHandlers) productAction(emit func(models.Product) models.Event) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := utils.ParseProductID(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product, err := h.Catalog.Find(id)
		if errors.Is(err, catalog.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		if err != nil {
			middleware.FromContext(c.Request.Context()).Error("Error looking up product", "id", id, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to look up product"})
			return
		}

		c.JSON(http.StatusCreated, emit(product))
	}
}

func (h *StoreHandlers) Cart(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"count": h.Session.CartCount()})
}
