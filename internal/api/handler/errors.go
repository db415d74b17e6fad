package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/binbin323/starschedule-server/internal/service"
	"github.com/binbin323/starschedule-server/pkg/response"
)

// handleCommonError 各模块共享的业务错误映射。
// 校验失败 → 422，冲突 → 409，not-found 交给各模块自己判，
// 命中则返回 true，未命中时调用方继续模块内的映射。
func handleCommonError(c *gin.Context, err error) bool {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		response.UnprocessableEntity(c, 10002, verr.Error())
		return true
	}
	var oerr *service.OverlapError
	if errors.As(err, &oerr) {
		response.Conflict(c, 10003, oerr.Error())
		return true
	}
	return false
}
