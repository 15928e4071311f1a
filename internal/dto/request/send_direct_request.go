package request

// SendDirectRequest 单聊消息
// 使用位置:
//   - POST /message/sendDirect
//   - WebSocket: direct-message-out
type SendDirectRequest struct {
	SendId    string `json:"send_id" binding:"required"`
	ReceiveId string `json:"receive_id" binding:"required"`
	Content   string `json:"content" binding:"required_without=Url"`
	SendTime  int64  `json:"send_time" binding:"required,gt=0"` // 客户端毫秒时间戳
	Url       string `json:"url"`
	FileType  string `json:"file_type"`
	FileName  string `json:"file_name"`
}
