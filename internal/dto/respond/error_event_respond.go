package respond

// ErrorEventRespond 客户端上行帧处理失败 (WebSocket: error)
type ErrorEventRespond struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// PingRespond 存活检查
type PingRespond struct {
	Message string `json:"message"`
	Online  int    `json:"online"`
}
