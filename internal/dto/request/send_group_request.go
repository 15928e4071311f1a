package request

// SendGroupRequest 群聊消息
// 使用位置:
//   - POST /message/sendGroup
//   - WebSocket: group-message-out
type SendGroupRequest struct {
	GroupId  string `json:"group_id" binding:"required"`
	SendId   string `json:"send_id" binding:"required"`
	SendName string `json:"send_name"`
	Content  string `json:"content" binding:"required_without=Url"`
	SendTime int64  `json:"send_time" binding:"required,gt=0"`
	Url      string `json:"url"`
	FileType string `json:"file_type"`
	FileName string `json:"file_name"`
}
