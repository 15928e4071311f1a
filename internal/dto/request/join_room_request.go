package request

// JoinRoomRequest 加入群聊房间
type JoinRoomRequest struct {
	GroupId string `json:"group_id" form:"group_id" binding:"required"`
}
