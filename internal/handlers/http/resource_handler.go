package http

import (
	"net/http"

	"midway/internal/core/domain"
	"midway/internal/core/ports"
	"midway/internal/core/services"

	"github.com/gin-gonic/gin"
)

// ResourceHandler exposes one ResourceService over JSON.
type ResourceHandler[E domain.Entity] struct {
	svc   *services.ResourceService[E]
	newFn func() E
}

func NewResourceHandler[E domain.Entity](svc *services.ResourceService[E], newFn func() E) *ResourceHandler[E] {
	return &ResourceHandler[E]{svc: svc, newFn: newFn}
}

var _ ports.ResourceHandler = (*ResourceHandler[*domain.Location])(nil)

// List supports ?status=. Other query parameters, owner ids included, are
// ignored.
func (h *ResourceHandler[E]) List(c *gin.Context) {
	filter := ports.Filter{Status: c.Query("status")}

	items, err := h.svc.List(c.Request.Context(), principal(c), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"count": len(items),
	})
}

func (h *ResourceHandler[E]) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *ResourceHandler[E]) Create(c *gin.Context) {
	item := h.newFn()
	if err := decodeBody(c, item); err != nil {
		c.Error(err)
		return
	}

	created, err := h.svc.Create(c.Request.Context(), principal(c), item)
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, created)
}

// Update applies the body as a partial update of the stored record.
func (h *ResourceHandler[E]) Update(c *gin.Context) {
	updated, err := h.svc.Update(c.Request.Context(), principal(c), c.Param("id"), func(item E) error {
		return decodeBody(c, item)
	})
	if err != nil {
		c.Error(err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ResourceHandler[E]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), principal(c), c.Param("id")); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
