package api

import (
	"github.com/gin-gonic/gin"

	"github.com/ByLCY/titlecard/layout"
)

// RegisterRoutes 挂载标题卡接口；cfg 为每个请求的基础配置，baseDir 用于解析相对字体路径。
func RegisterRoutes(r *gin.Engine, cfg layout.Config, baseDir string) {
	h := &handler{cfg: cfg, baseDir: baseDir}
	api := r.Group("/api")
	{
		api.GET("/health", health)
		api.POST("/cards", h.renderCard)
		api.POST("/cards/layout", h.layoutCard)
	}
}
