package respond

// HistoryMessageRespond 历史消息条目，按 send_time 倒序返回
type HistoryMessageRespond struct {
	Uuid           int64  `json:"uuid,string"`
	ConversationId string `json:"conversation_id"`
	SendId         string `json:"send_id"`
	SendName       string `json:"send_name,omitempty"`
	ReceiveId      string `json:"receive_id,omitempty"`
	Content        string `json:"content"`
	SendTime       int64  `json:"send_time"`
	Url            string `json:"url,omitempty"`
	FileType       string `json:"file_type,omitempty"`
	FileName       string `json:"file_name,omitempty"`
}

// JoinRoomRespond 加入群聊房间并返回首页历史
type JoinRoomRespond struct {
	GroupId  string                  `json:"group_id"`
	Attached bool                    `json:"attached"` // 当前用户没有活跃连接时为 false
	History  []HistoryMessageRespond `json:"history"`
}
