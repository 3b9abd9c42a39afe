package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/rappelscan/backend/internal/domain"
	"github.com/rappelscan/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recalls   *usecase.RecallService
	favorites *usecase.FavoritesService
	watch     *usecase.WatchService
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewHandler creates a new HTTP handler
func NewHandler(
	recalls *usecase.RecallService,
	favorites *usecase.FavoritesService,
	watch *usecase.WatchService,
	logger logrus.FieldLogger,
) *Handler {
	return &Handler{
		recalls:   recalls,
		favorites: favorites,
		watch:     watch,
		log:       logger.WithField("component", "http"),
		now:       time.Now,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "rappelscan-backend",
		"version": "1.0.0",
	})
}

// Scan handles GET /scan/:barcode
func (h *Handler) Scan(c *gin.Context) {
	result, err := h.recalls.Scan(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchProducts handles GET /products/search?q=
func (h *Handler) SearchProducts(c *gin.Context) {
	products, err := h.recalls.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// LookupProduct handles GET /products/:barcode
func (h *Handler) LookupProduct(c *gin.Context) {
	product, err := h.recalls.LookupProduct(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !product.Found {
		c.JSON(http.StatusNotFound, product)
		return
	}
	c.JSON(http.StatusOK, product)
}

// RecentRecalls handles GET /recalls?q=
func (h *Handler) RecentRecalls(c *gin.Context) {
	buckets, err := h.recalls.RecentRecalls(c.Request.Context(), c.Query("q"), h.now())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, buckets)
}

// ListFavorites handles GET /favorites
func (h *Handler) ListFavorites(c *gin.Context) {
	favorites, err := h.favorites.List(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	if favorites == nil {
		favorites = []domain.Favorite{}
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// AddFavorite handles POST /favorites
func (h *Handler) AddFavorite(c *gin.Context) {
	var in domain.FavoriteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fav, err := h.favorites.Add(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fav)
}

// UpdateFavorite handles PATCH /favorites/:id
func (h *Handler) UpdateFavorite(c *gin.Context) {
	var in domain.FavoriteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	fav, err := h.favorites.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fav)
}

// RemoveFavorite handles DELETE /favorites/:id
func (h *Handler) RemoveFavorite(c *gin.Context) {
	if err := h.favorites.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAlerts handles GET /alerts
func (h *Handler) ListAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": h.watch.Alerts()})
}

// RefreshAlerts handles POST /alerts/refresh
func (h *Handler) RefreshAlerts(c *gin.Context) {
	alerts, err := h.watch.Refresh(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// DismissAlert handles DELETE /alerts/:favoriteId
func (h *Handler) DismissAlert(c *gin.Context) {
	if !h.watch.Dismiss(c.Param("favoriteId")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "no alert for this favorite"})
		return
	}
	c.Status(http.StatusNoContent)
}

// respondError maps domain errors to status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateFavorite):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		h.log.WithError(err).WithField("path", c.FullPath()).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
