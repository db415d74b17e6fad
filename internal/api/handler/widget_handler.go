package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/binbin323/starschedule-server/pkg/response"
)

// WidgetHandler 桌面小组件内容 HTTP 处理器
type WidgetHandler struct {
	source WidgetSource
}

// NewWidgetHandler 创建 WidgetHandler
func NewWidgetHandler(source WidgetSource) *WidgetHandler {
	return &WidgetHandler{source: source}
}

// GetWidget 获取小组件内容（当前课表的今日视图）
// GET /api/v1/widget
func (h *WidgetHandler) GetWidget(c *gin.Context) {
	content, err := h.source.Content(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, content)
}
