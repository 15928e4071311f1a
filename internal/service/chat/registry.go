package chat

import (
	"sync"

	"relay_chat_server/pkg/errorx"
)

// ConnRegistry 用户与活跃连接的双向映射
// 同一用户同时只允许一个连接，断开时只携带连接句柄，需要反查用户
type ConnRegistry struct {
	mu       sync.RWMutex
	byUser   map[string]Session // userId -> 连接
	byHandle map[string]string  // handle -> userId
}

// NewConnRegistry 创建连接注册表
func NewConnRegistry() *ConnRegistry {
	return &ConnRegistry{
		byUser:   make(map[string]Session),
		byHandle: make(map[string]string),
	}
}

// Register 绑定用户与连接
// 用户已有活跃连接时返回 ErrAlreadyActive，不会替换原连接
func (r *ConnRegistry) Register(userId string, session Session) error {
	if userId == "" || session == nil || session.Handle() == "" {
		return errorx.ErrInvalidParam
	}
	handle := session.Handle()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUser[userId]; ok {
		return errorx.ErrAlreadyActive
	}
	if owner, ok := r.byHandle[handle]; ok {
		return errorx.Newf(errorx.CodeInvalidParam, "连接已绑定用户 %s", owner)
	}
	r.byUser[userId] = session
	r.byHandle[handle] = userId
	return nil
}

// Resolve 查找用户当前的连接
func (r *ConnRegistry) Resolve(userId string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.byUser[userId]
	return s, ok
}

// OwnerOf 根据连接句柄反查用户
func (r *ConnRegistry) OwnerOf(handle string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	userId, ok := r.byHandle[handle]
	return userId, ok
}

// UnregisterByHandle 解除连接绑定，可重复调用
// 返回被移除的用户，未绑定时 ok 为 false
func (r *ConnRegistry) UnregisterByHandle(handle string) (userId string, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	userId, ok = r.byHandle[handle]
	if !ok {
		return "", false
	}
	delete(r.byHandle, handle)
	if s, exists := r.byUser[userId]; exists && s.Handle() == handle {
		delete(r.byUser, userId)
	}
	return userId, true
}

// IsActive 用户是否持有活跃连接
func (r *ConnRegistry) IsActive(userId string) bool {
	_, ok := r.Resolve(userId)
	return ok
}

// Count 在线用户数
func (r *ConnRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
