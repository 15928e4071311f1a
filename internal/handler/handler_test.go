package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"relay_chat_server/internal/dto/request"
	"relay_chat_server/internal/dto/respond"
	"relay_chat_server/internal/infrastructure/middleware"
	"relay_chat_server/internal/service"
	"relay_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := InitTrans("zh"); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type stubRelay struct {
	direct    []*request.SendDirectRequest
	group     []*request.SendGroupRequest
	joined    map[string]string
	delivered int
	online    map[string]bool
	loggedOut []string
	err       error
}

func newStubRelay() *stubRelay {
	return &stubRelay{joined: map[string]string{}, online: map[string]bool{}}
}

func (s *stubRelay) ServeWs(c *gin.Context, userId string) error {
	if s.online[userId] {
		return errorx.ErrAlreadyActive
	}
	c.Status(http.StatusSwitchingProtocols)
	return nil
}

func (s *stubRelay) Logout(_ context.Context, userId string) error {
	s.loggedOut = append(s.loggedOut, userId)
	return s.err
}

func (s *stubRelay) SendDirect(_ context.Context, req *request.SendDirectRequest) error {
	if s.err != nil {
		return s.err
	}
	s.direct = append(s.direct, req)
	return nil
}

func (s *stubRelay) SendGroup(_ context.Context, req *request.SendGroupRequest) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.group = append(s.group, req)
	return s.delivered, nil
}

func (s *stubRelay) JoinRoom(userId, groupId string) bool {
	if !s.online[userId] {
		return false
	}
	s.joined[userId] = groupId
	return true
}

func (s *stubRelay) PollStatus(_ context.Context, userId string) (string, error) {
	if s.online[userId] {
		return "online", s.err
	}
	return "offline", s.err
}

func (s *stubRelay) IsOnline(userId string) bool { return s.online[userId] }
func (s *stubRelay) OnlineCount() int            { return len(s.online) }

type stubHistory struct {
	lastConversation string
	lastPair         [2]string
	lastCursor       int64
	page             []respond.HistoryMessageRespond
	err              error
}

func (s *stubHistory) InitialHistory(_ context.Context, conversationId string) ([]respond.HistoryMessageRespond, error) {
	s.lastConversation = conversationId
	return s.page, s.err
}

func (s *stubHistory) PageBefore(_ context.Context, conversationId string, cursor int64) ([]respond.HistoryMessageRespond, error) {
	s.lastConversation, s.lastCursor = conversationId, cursor
	return s.page, s.err
}

func (s *stubHistory) DirectInitialHistory(_ context.Context, a, b string) ([]respond.HistoryMessageRespond, error) {
	s.lastPair = [2]string{a, b}
	return s.page, s.err
}

func (s *stubHistory) DirectPageBefore(_ context.Context, a, b string, cursor int64) ([]respond.HistoryMessageRespond, error) {
	s.lastPair, s.lastCursor = [2]string{a, b}, cursor
	return s.page, s.err
}

type body struct {
	Code int             `json:"code"`
	Msg  json.RawMessage `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// newEngine 用固定用户代替 JWT 中间件
func newEngine(relay *stubRelay, history *stubHistory, userId string) *gin.Engine {
	h := NewHandlers(&service.Services{Relay: relay, History: history})
	r := gin.New()
	r.GET("/ping", h.Ws.Ping)
	auth := r.Group("/", func(c *gin.Context) { c.Set(middleware.ContextUserID, userId) })
	auth.GET("/wss", h.Ws.WsLogin)
	auth.POST("/ws/logout", h.Ws.WsLogout)
	auth.POST("/message/sendDirect", h.Message.SendDirect)
	auth.POST("/message/sendGroup", h.Message.SendGroup)
	auth.GET("/message/getInitialHistory", h.Message.GetInitialHistory)
	auth.GET("/message/getHistoryBefore", h.Message.GetHistoryBefore)
	auth.POST("/group/joinRoom", h.Group.JoinRoom)
	auth.POST("/presence/poll", h.Presence.Poll)
	return r
}

func do(t *testing.T, r *gin.Engine, method, target, payload string) body {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(payload))
	if payload != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var b body
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func TestSendDirect(t *testing.T) {
	relay := newStubRelay()
	r := newEngine(relay, &stubHistory{}, "u1")

	b := do(t, r, http.MethodPost, "/message/sendDirect", `{"send_id":"u1","receive_id":"u2","content":"hi","send_time":1000}`)
	assert.Equal(t, errorx.CodeSuccess, b.Code)
	require.Len(t, relay.direct, 1)
	assert.Equal(t, "u2", relay.direct[0].ReceiveId)
	assert.Equal(t, int64(1000), relay.direct[0].SendTime)

	b = do(t, r, http.MethodPost, "/message/sendDirect", `{"send_id":"u9","receive_id":"u2","content":"hi","send_time":1000}`)
	assert.Equal(t, errorx.CodeUnauthorized, b.Code)

	b = do(t, r, http.MethodPost, "/message/sendDirect", `{"send_id":"u1","content":"hi","send_time":1000}`)
	assert.Equal(t, errorx.CodeInvalidParam, b.Code)
	assert.Contains(t, string(b.Msg), "receive_id")

	b = do(t, r, http.MethodPost, "/message/sendDirect", `{not json`)
	assert.Equal(t, errorx.CodeInvalidParam, b.Code)
	assert.Len(t, relay.direct, 1)
}

func TestSendDirectStoreFailure(t *testing.T) {
	relay := newStubRelay()
	relay.err = errorx.Wrap(errors.New("refused"), errorx.CodePersistenceUnavailable, "写入消息失败")
	r := newEngine(relay, &stubHistory{}, "u1")

	b := do(t, r, http.MethodPost, "/message/sendDirect", `{"send_id":"u1","receive_id":"u2","content":"hi","send_time":1}`)
	assert.Equal(t, errorx.CodePersistenceUnavailable, b.Code)
}

func TestSendGroupReportsDelivered(t *testing.T) {
	relay := newStubRelay()
	relay.delivered = 3
	r := newEngine(relay, &stubHistory{}, "u1")

	b := do(t, r, http.MethodPost, "/message/sendGroup", `{"group_id":"g1","send_id":"u1","send_name":"Alice","content":"hello","send_time":2000}`)
	assert.Equal(t, errorx.CodeSuccess, b.Code)
	assert.JSONEq(t, `{"delivered":3}`, string(b.Data))
	require.Len(t, relay.group, 1)
	assert.Equal(t, "Alice", relay.group[0].SendName)

	b = do(t, r, http.MethodPost, "/message/sendGroup", `{"group_id":"g1","send_id":"u2","content":"x","send_time":1}`)
	assert.Equal(t, errorx.CodeUnauthorized, b.Code)
}

func TestInitialHistoryRouting(t *testing.T) {
	history := &stubHistory{page: []respond.HistoryMessageRespond{{Uuid: 42, ConversationId: "u1_u2", SendId: "u1", Content: "hi", SendTime: 1000}}}
	r := newEngine(newStubRelay(), history, "u1")

	b := do(t, r, http.MethodGet, "/message/getInitialHistory?conversation_id=u1_u2", "")
	assert.Equal(t, errorx.CodeSuccess, b.Code)
	assert.Equal(t, "u1_u2", history.lastConversation)
	assert.JSONEq(t, `[{"uuid":"42","conversation_id":"u1_u2","send_id":"u1","content":"hi","send_time":1000}]`, string(b.Data))

	b = do(t, r, http.MethodGet, "/message/getInitialHistory?user_one_id=u2&user_two_id=u1", "")
	assert.Equal(t, errorx.CodeSuccess, b.Code)
	assert.Equal(t, [2]string{"u2", "u1"}, history.lastPair)

	b = do(t, r, http.MethodGet, "/message/getInitialHistory", "")
	assert.Equal(t, errorx.CodeInvalidParam, b.Code)

	b = do(t, r, http.MethodGet, "/message/getInitialHistory?user_one_id=u2", "")
	assert.Equal(t, errorx.CodeInvalidParam, b.Code)
}

func TestHistoryBeforeRequiresCursor(t *testing.T) {
	history := &stubHistory{page: []respond.HistoryMessageRespond{}}
	r := newEngine(newStubRelay(), history, "u1")

	b := do(t, r, http.MethodGet, "/message/getHistoryBefore?conversation_id=g1", "")
	assert.Equal(t, errorx.CodeInvalidParam, b.Code)

	// 负数 cursor 交给历史服务，结果为空页
	b = do(t, r, http.MethodGet, "/message/getHistoryBefore?conversation_id=g1&cursor=-5", "")
	assert.Equal(t, errorx.CodeSuccess, b.Code)
	assert.Equal(t, int64(-5), history.lastCursor)
	assert.JSONEq(t, `[]`, string(b.Data))

	b = do(t, r, http.MethodGet, "/message/getHistoryBefore?conversation_id=g1&cursor=1700", "")
	assert.Equal(t, errorx.CodeSuccess, b.Code)
	assert.Equal(t, int64(1700), history.lastCursor)
	assert.JSONEq(t, `[]`, string(b.Data))

	b = do(t, r, http.MethodGet, "/message/getHistoryBefore?user_one_id=u1&user_two_id=u2&cursor=9", "")
	assert.Equal(t, errorx.CodeSuccess, b.Code)
	assert.Equal(t, [2]string{"u1", "u2"}, history.lastPair)
}

func TestJoinRoom(t *testing.T) {
	relay := newStubRelay()
	relay.online["u1"] = true
	history := &stubHistory{page: []respond.HistoryMessageRespond{{Uuid: 1, ConversationId: "g1", SendId: "u2", SendName: "Bob", Content: "hello", SendTime: 2000}}}

	b := do(t, newEngine(relay, history, "u1"), http.MethodPost, "/group/joinRoom", `{"group_id":"g1"}`)
	assert.Equal(t, errorx.CodeSuccess, b.Code)
	assert.Equal(t, "g1", relay.joined["u1"])
	assert.Equal(t, "g1", history.lastConversation)
	var rsp respond.JoinRoomRespond
	require.NoError(t, json.Unmarshal(b.Data, &rsp))
	assert.True(t, rsp.Attached)
	require.Len(t, rsp.History, 1)
	assert.Equal(t, "Bob", rsp.History[0].SendName)

	// 没有长连接时仍返回历史
	b = do(t, newEngine(relay, history, "u3"), http.MethodPost, "/group/joinRoom", `{"group_id":"g1"}`)
	require.NoError(t, json.Unmarshal(b.Data, &rsp))
	assert.False(t, rsp.Attached)
	assert.Len(t, rsp.History, 1)

	b = do(t, newEngine(relay, history, "u1"), http.MethodPost, "/group/joinRoom", `{}`)
	assert.Equal(t, errorx.CodeInvalidParam, b.Code)
}

func TestPresencePoll(t *testing.T) {
	relay := newStubRelay()
	relay.online["u1"] = true

	b := do(t, newEngine(relay, &stubHistory{}, "u1"), http.MethodPost, "/presence/poll", "")
	assert.Equal(t, errorx.CodeSuccess, b.Code)
	assert.JSONEq(t, `{"user_id":"u1","status":"online"}`, string(b.Data))

	b = do(t, newEngine(relay, &stubHistory{}, "u2"), http.MethodPost, "/presence/poll", "")
	assert.JSONEq(t, `{"user_id":"u2","status":"offline"}`, string(b.Data))
}

func TestWsLoginAndLogout(t *testing.T) {
	relay := newStubRelay()
	relay.online["u1"] = true
	r := newEngine(relay, &stubHistory{}, "u1")

	b := do(t, r, http.MethodGet, "/wss", "")
	assert.Equal(t, errorx.CodeAlreadyActive, b.Code)

	b = do(t, r, http.MethodPost, "/ws/logout", "")
	assert.Equal(t, errorx.CodeSuccess, b.Code)
	assert.Equal(t, []string{"u1"}, relay.loggedOut)
}

func TestPing(t *testing.T) {
	relay := newStubRelay()
	relay.online["u1"] = true
	relay.online["u2"] = true

	b := do(t, newEngine(relay, &stubHistory{}, ""), http.MethodGet, "/ping", "")
	assert.Equal(t, errorx.CodeSuccess, b.Code)
	assert.JSONEq(t, `{"message":"pong","online":2}`, string(b.Data))
}

func TestHandleErrorUnknownError(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	HandleError(c, errors.New("boom"))
	assert.Contains(t, w.Body.String(), `"code":1005`)
}
