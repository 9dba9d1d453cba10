package handle

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) InitRouter() {
	if h.options.enablePProf {
		pprof.Register(h.Engine())
	}
	if h.options.prometheus {
		h.Engine().GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	h.Engine().POST("/create-commit", h.CreateCommit)
	h.Engine().POST("/create-reveal", h.CreateReveal)
	h.Engine().GET("/inscription/:id", h.Inscription)
	h.Engine().POST("/inscription/:id/status", h.UpdateStatus)
}
