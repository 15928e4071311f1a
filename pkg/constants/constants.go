package constants

const (
	CHANNEL_SIZE        = 100 // 通道大小
	HISTORY_PAGE_SIZE   = 15  // 历史消息每页条数
	REDIS_TIMEOUT       = 1   // redis timeout (分钟)
	HISTORY_VERSION_TTL = 24  // 会话版本号保留时间 (小时)
	WS_READ_LIMIT       = 8192
)
