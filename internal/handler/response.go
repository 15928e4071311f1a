package handler

import (
	"errors"
	"net/http"

	"relay_chat_server/internal/infrastructure/middleware"
	"relay_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// ResponseData 统一响应结构体
type ResponseData struct {
	Code int `json:"code"`           // 业务响应状态码
	Msg  any `json:"msg"`            // 提示信息
	Data any `json:"data,omitempty"` // 数据
}

// HandleSuccess 返回成功响应
func HandleSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, ResponseData{
		Code: errorx.CodeSuccess,
		Msg:  "success",
		Data: data,
	})
}

// HandleError 通用错误处理
// 业务错误原样返回错误码，其余错误记录日志并返回服务繁忙
func HandleError(c *gin.Context, err error) {
	var codeErr *errorx.CodeError
	if errors.As(err, &codeErr) {
		if codeErr.Code == errorx.CodePersistenceUnavailable || codeErr.Code == errorx.CodeCacheError {
			zap.L().Error("storage error",
				zap.String("path", c.Request.URL.Path),
				zap.Error(err),
			)
		}
		c.JSON(http.StatusOK, ResponseData{Code: codeErr.Code, Msg: codeErr.Msg})
		return
	}

	zap.L().Error("system error",
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
		zap.Error(err),
	)
	c.JSON(http.StatusOK, ResponseData{Code: errorx.ErrServerBusy.Code, Msg: errorx.ErrServerBusy.Msg})
}

// HandleParamError 参数绑定错误，validator 错误会被翻译
func HandleParamError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && Trans != nil {
		c.JSON(http.StatusOK, ResponseData{
			Code: errorx.ErrInvalidParam.Code,
			Msg:  RemoveTopStruct(validationErrs.Translate(Trans)),
		})
		return
	}

	// JSON 格式错误等
	zap.L().Info("param bind error", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(http.StatusOK, ResponseData{Code: errorx.ErrInvalidParam.Code, Msg: errorx.ErrInvalidParam.Msg})
}

// currentUser 取 JWTAuth 写入的用户 ID
func currentUser(c *gin.Context) string {
	return c.GetString(middleware.ContextUserID)
}
