package services

import "github.com/gin-gonic/gin"

const serviceKey = "rankingService"

// SetServiceToContext exposes the service to the handlers. The service is built
// once per process and travels through the gin context instead of living in a
// package global.
func SetServiceToContext(svc *RankingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(serviceKey, svc)
		c.Next()
	}
}

func ServiceInstance(c *gin.Context) *RankingService {
	v, ok := c.Get(serviceKey)
	if !ok {
		return nil
	}
	svc, _ := v.(*RankingService)
	return svc
}
