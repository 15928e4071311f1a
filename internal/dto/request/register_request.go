package request

// RegisterRequest 长连接注册帧 (WebSocket: register)
// UserId 必须与 Token 中的用户一致
type RegisterRequest struct {
	UserId string `json:"user_id" binding:"required"`
}

// PollStatusRequest 重新广播自身在线状态 (WebSocket: poll-status)
type PollStatusRequest struct {
	UserId string `json:"user_id" binding:"required"`
}
