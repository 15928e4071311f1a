package respond

// GroupMessageRespond 群聊实时投递 (WebSocket: group-message-in)
type GroupMessageRespond struct {
	SendId   string `json:"send_id"`
	SendName string `json:"send_name"`
	Content  string `json:"content"`
	SendTime int64  `json:"send_time"`
	GroupId  string `json:"group_id"`
	Url      string `json:"url,omitempty"`
	FileType string `json:"file_type,omitempty"`
	FileName string `json:"file_name,omitempty"`
}

// SendGroupRespond 群聊发送结果
type SendGroupRespond struct {
	Delivered int `json:"delivered"`
}
