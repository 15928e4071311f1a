package chat

// conversationSeparator 单聊会话 ID 中两个用户 ID 的分隔符
const conversationSeparator = "_"

// ConversationId 计算单聊会话 ID
// 两个用户 ID 按字节序排序后连接，与发起方无关
func ConversationId(userOneId, userTwoId string) string {
	if userTwoId < userOneId {
		userOneId, userTwoId = userTwoId, userOneId
	}
	return userOneId + conversationSeparator + userTwoId
}
