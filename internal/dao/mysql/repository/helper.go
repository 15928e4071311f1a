package repository

import (
	"errors"

	"relay_chat_server/pkg/errorx"

	"gorm.io/gorm"
)

// wrapDBErrorf 仓储方法返回前统一转换 gorm 错误
// 查无记录为 CodeNotFound，连接失败、超时等一律为 CodePersistenceUnavailable，
// 路由层据此判定消息未落库、不再投递
func wrapDBErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errorx.Wrapf(err, errorx.CodeNotFound, format, args...)
	}
	return errorx.Wrapf(err, errorx.CodePersistenceUnavailable, format, args...)
}
