package request

// HistoryRequest 获取会话首页消息
// 传 conversation_id，或传单聊双方的 user_one_id + user_two_id
type HistoryRequest struct {
	ConversationId string `json:"conversation_id" form:"conversation_id" binding:"required_without=UserOneId"`
	UserOneId      string `json:"user_one_id" form:"user_one_id" binding:"required_with=UserTwoId"`
	UserTwoId      string `json:"user_two_id" form:"user_two_id" binding:"required_with=UserOneId"`
}

// HistoryBeforeRequest 以时间游标向前翻页
// cursor 取上一页最旧一条消息的 send_time，负数得到空页
type HistoryBeforeRequest struct {
	HistoryRequest
	Cursor int64 `json:"cursor" form:"cursor" binding:"required"`
}
