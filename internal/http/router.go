package httpx

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(ph *PaymentHandler, hh *HealthHandler) *gin.Engine {
	r := gin.Default()

	r.GET("/healthz", hh.Healthz)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/v1")
	{
		v1.POST("/payments/webhook", ph.Webhook)
		v1.POST("/payments/verify", ph.Verify)
	}
	return r
}
