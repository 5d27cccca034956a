package api

import (
	"bytes"
	"errors"
	"log"
	"net/http"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"

	"github.com/ByLCY/titlecard/layout"
	"github.com/ByLCY/titlecard/renderer"
	canvasrenderer "github.com/ByLCY/titlecard/renderer/canvas"
)

type handler struct {
	cfg     layout.Config
	baseDir string
}

// cardRequest 是生成接口的请求体；未给出的字段沿用服务端配置。
type cardRequest struct {
	Caption string  `json:"caption"`
	Wide    *bool   `json:"wide"`
	Title   *string `json:"title"`
}

func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// renderCard 返回 PNG 图片。
func (h *handler) renderCard(c *gin.Context) {
	r, card, ok := h.build(c)
	if !ok {
		return
	}
	img, err := r.Render(card)
	if err != nil {
		log.Println("render error:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	var buf bytes.Buffer
	if err := renderer.Encode(&buf, img, imaging.PNG); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// layoutCard 只返回排版结果（与 -debug 输出的 JSON 相同）。
func (h *handler) layoutCard(c *gin.Context) {
	_, card, ok := h.build(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, card)
}

// build 解析请求并完成排版。失败时已写好响应，返回 ok=false。
// 字体后端不保证可重入，每个请求使用独立的渲染器。
func (h *handler) build(c *gin.Context) (*canvasrenderer.Renderer, *layout.Card, bool) {
	var req cardRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, nil, false
	}
	cfg := h.cfg
	if req.Wide != nil {
		cfg.Wide = *req.Wide
	}
	if req.Title != nil {
		cfg.Title = *req.Title
	}

	r := canvasrenderer.NewRenderer(h.baseDir, cfg.Font)
	card, err := layout.Build(req.Caption, r, cfg)
	if err != nil {
		var we *layout.WrapError
		switch {
		case errors.As(err, &we):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": we.Error(), "kind": we.KindName()})
		case errors.Is(err, layout.ErrTitleTooWide):
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "kind": "title_too_wide"})
		default:
			log.Println("layout error:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, nil, false
	}
	return r, card, true
}
