package chat

import (
	"encoding/json"

	"relay_chat_server/internal/dto/request"
	"relay_chat_server/internal/dto/respond"
	"relay_chat_server/pkg/errorx"

	"github.com/gin-gonic/gin/binding"
)

// EventName 长连接事件名
type EventName string

const (
	// 客户端 -> 服务端
	EventRegister         EventName = "register"
	EventPollStatus       EventName = "poll-status"
	EventDirectMessageOut EventName = "direct-message-out"
	EventGroupMessageOut  EventName = "group-message-out"
	EventJoinRoom         EventName = "join-room"

	// 服务端 -> 客户端
	EventPresenceChange EventName = "presence-change"
	EventDirectMessage  EventName = "direct-message"
	EventGroupMessageIn EventName = "group-message-in"
	EventError          EventName = "error"
)

// Envelope 长连接上的统一帧格式 {"event": ..., "data": {...}}
type Envelope struct {
	Event EventName `json:"event"`
	Data  any       `json:"data,omitempty"`
}

// Frame 解码并校验后的上行帧，只有与 Event 对应的字段非空
type Frame struct {
	Event      EventName
	Register   *request.RegisterRequest
	PollStatus *request.PollStatusRequest
	DirectOut  *request.SendDirectRequest
	GroupOut   *request.SendGroupRequest
	JoinRoom   *request.JoinRoomRequest
}

type rawFrame struct {
	Event EventName       `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// DecodeFrame 解析客户端上行帧
// 未知事件、JSON 格式错误或缺少必填字段均返回 CodeInvalidParam
func DecodeFrame(payload []byte) (*Frame, error) {
	var raw rawFrame
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, errorx.Wrap(err, errorx.CodeInvalidParam, "消息格式错误")
	}

	frame := &Frame{Event: raw.Event}
	var target any
	switch raw.Event {
	case EventRegister:
		frame.Register = &request.RegisterRequest{}
		target = frame.Register
	case EventPollStatus:
		frame.PollStatus = &request.PollStatusRequest{}
		target = frame.PollStatus
	case EventDirectMessageOut:
		frame.DirectOut = &request.SendDirectRequest{}
		target = frame.DirectOut
	case EventGroupMessageOut:
		frame.GroupOut = &request.SendGroupRequest{}
		target = frame.GroupOut
	case EventJoinRoom:
		frame.JoinRoom = &request.JoinRoomRequest{}
		target = frame.JoinRoom
	default:
		return nil, errorx.Newf(errorx.CodeInvalidParam, "未知事件 %q", raw.Event)
	}

	if len(raw.Data) == 0 {
		return nil, errorx.Newf(errorx.CodeInvalidParam, "%s 缺少 data", raw.Event)
	}
	if err := json.Unmarshal(raw.Data, target); err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeInvalidParam, "%s 参数格式错误", raw.Event)
	}
	if err := validate(target); err != nil {
		return nil, errorx.Wrapf(err, errorx.CodeInvalidParam, "%s 参数错误", raw.Event)
	}
	return frame, nil
}

// validate 与 HTTP 请求共用 gin 的校验器和 binding 标签
func validate(obj any) error {
	return binding.Validator.ValidateStruct(obj)
}

func errorEnvelope(err error) Envelope {
	return Envelope{
		Event: EventError,
		Data: respond.ErrorEventRespond{
			Code: errorx.GetCode(err),
			Msg:  err.Error(),
		},
	}
}
