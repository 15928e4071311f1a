package respond

// PresenceChangeRespond 好友上下线通知 (WebSocket: presence-change)
type PresenceChangeRespond struct {
	UserId string `json:"user_id"`
	Status string `json:"status"` // online | offline
}
