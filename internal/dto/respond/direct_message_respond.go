package respond

// DirectMessageRespond 单聊实时投递 (WebSocket: direct-message)
type DirectMessageRespond struct {
	SendId    string `json:"send_id"`
	ReceiveId string `json:"receive_id"`
	Content   string `json:"content"`
	SendTime  int64  `json:"send_time"`
	Url       string `json:"url,omitempty"`
	FileType  string `json:"file_type,omitempty"`
	FileName  string `json:"file_name,omitempty"`
}
