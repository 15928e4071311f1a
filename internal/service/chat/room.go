package chat

import (
	"sort"
	"sync"
)

// RoomManager 群聊房间，纯内存的连接分组
// 房间成员按连接而不是按用户记录，重连后需要重新加入
type RoomManager struct {
	mu     sync.RWMutex
	rooms  map[string]map[string]Session  // groupId -> handle -> 连接
	joined map[string]map[string]struct{} // handle -> groupIds
}

// NewRoomManager 创建房间管理器
func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms:  make(map[string]map[string]Session),
		joined: make(map[string]map[string]struct{}),
	}
}

// JoinRoom 将连接加入群聊房间，重复加入无副作用
// 返回本次是否新加入
func (m *RoomManager) JoinRoom(session Session, groupId string) bool {
	if session == nil || groupId == "" {
		return false
	}
	handle := session.Handle()

	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[groupId]
	if !ok {
		room = make(map[string]Session)
		m.rooms[groupId] = room
	}
	if _, exists := room[handle]; exists {
		return false
	}
	room[handle] = session

	groups, ok := m.joined[handle]
	if !ok {
		groups = make(map[string]struct{})
		m.joined[handle] = groups
	}
	groups[groupId] = struct{}{}
	return true
}

// Broadcast 向房间内除 excludeHandle 外的所有连接投递事件，返回成功投递数
// 持锁只做成员快照，投递在锁外进行
func (m *RoomManager) Broadcast(groupId string, evt Envelope, excludeHandle string) int {
	m.mu.RLock()
	targets := make([]Session, 0, len(m.rooms[groupId]))
	for handle, s := range m.rooms[groupId] {
		if handle != excludeHandle {
			targets = append(targets, s)
		}
	}
	m.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if s.Push(evt) {
			delivered++
		}
	}
	return delivered
}

// LeaveAll 连接关闭时退出所有房间，空房间一并删除
func (m *RoomManager) LeaveAll(handle string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	groups, ok := m.joined[handle]
	if !ok {
		return nil
	}
	delete(m.joined, handle)

	left := make([]string, 0, len(groups))
	for groupId := range groups {
		left = append(left, groupId)
		room := m.rooms[groupId]
		delete(room, handle)
		if len(room) == 0 {
			delete(m.rooms, groupId)
		}
	}
	sort.Strings(left)
	return left
}

// Members 房间内连接句柄快照
func (m *RoomManager) Members(groupId string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	handles := make([]string, 0, len(m.rooms[groupId]))
	for handle := range m.rooms[groupId] {
		handles = append(handles, handle)
	}
	sort.Strings(handles)
	return handles
}
