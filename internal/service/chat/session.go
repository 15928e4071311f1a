package chat

// Session 一条活跃连接在聊天核心中的视图
// 注册表和房间只通过它投递事件，不关心底层传输
type Session interface {
	// Handle 连接句柄，连接存活期间唯一
	Handle() string
	// Push 非阻塞投递事件，连接已关闭或缓冲区已满时返回 false
	Push(evt Envelope) bool
}
