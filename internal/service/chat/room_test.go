package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinRoomIdempotent(t *testing.T) {
	m := NewRoomManager()
	h1 := NewFakeSession("h1")

	assert.True(t, m.JoinRoom(h1, "g1"))
	assert.False(t, m.JoinRoom(h1, "g1"))
	assert.Equal(t, []string{"h1"}, m.Members("g1"))

	assert.False(t, m.JoinRoom(h1, ""))
	assert.False(t, m.JoinRoom(nil, "g1"))
}

func TestBroadcastExcludesSender(t *testing.T) {
	m := NewRoomManager()
	h1, h2, h3 := NewFakeSession("h1"), NewFakeSession("h2"), NewFakeSession("h3")
	other := NewFakeSession("h4")
	m.JoinRoom(h1, "g1")
	m.JoinRoom(h2, "g1")
	m.JoinRoom(h3, "g1")
	m.JoinRoom(other, "g2")

	evt := Envelope{Event: EventGroupMessageIn, Data: "hello"}
	assert.Equal(t, 2, m.Broadcast("g1", evt, "h1"))

	assert.Empty(t, h1.Events(EventGroupMessageIn))
	assert.Len(t, h2.Events(EventGroupMessageIn), 1)
	assert.Len(t, h3.Events(EventGroupMessageIn), 1)
	assert.Empty(t, other.Events(EventGroupMessageIn))

	// 关闭的连接不计入投递数
	h3.CloseSession()
	assert.Equal(t, 1, m.Broadcast("g1", evt, "h1"))
	assert.Equal(t, 0, m.Broadcast("empty", evt, ""))
}

func TestLeaveAll(t *testing.T) {
	m := NewRoomManager()
	h1, h2 := NewFakeSession("h1"), NewFakeSession("h2")
	m.JoinRoom(h1, "g1")
	m.JoinRoom(h1, "g2")
	m.JoinRoom(h2, "g1")

	assert.Equal(t, []string{"g1", "g2"}, m.LeaveAll("h1"))
	assert.Equal(t, []string{"h2"}, m.Members("g1"))
	assert.Empty(t, m.Members("g2"))
	assert.Nil(t, m.LeaveAll("h1"))

	// 重连后需要重新加入
	assert.True(t, m.JoinRoom(h1, "g2"))
}
