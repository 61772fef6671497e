package response

import "github.com/gin-gonic/gin"

// Resp 统一响应体：code 与 HTTP 状态码一致（成功为 0）
type Resp struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// New data 为 nil 时输出 {}，前端不用判空
func New(code int, msg string, data any) Resp {
	if data == nil {
		data = struct{}{}
	}
	return Resp{Code: code, Msg: msg, Data: data}
}

func OK(data any) Resp {
	return New(CodeOK, CodeMsgMap[CodeOK], data)
}

// Error msg 为空时用 CodeMsgMap 的默认文案
func Error(code int, msg string) Resp {
	if msg == "" {
		msg = CodeMsgMap[code]
	}
	return New(code, msg, nil)
}

// Abort 中断链路并写出错误；HTTP 状态由 code 推出
func Abort(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(HTTPStatus(code), Error(code, msg))
}

// Write 成功响应；status 为 0 时按 200
func Write(c *gin.Context, status int, data any) {
	if status == 0 {
		status = HTTPStatus(CodeOK)
	}
	c.JSON(status, OK(data))
}
