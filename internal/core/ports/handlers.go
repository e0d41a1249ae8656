package ports

import "github.com/gin-gonic/gin"

// ResourceHandler serves the five data access operations of one entity.
type ResourceHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}
