package response

// AppError 带业务码的错误
// 处理器用它把底层错误与对外提示消息绑在一起，日志打原因，响应只出消息
type AppError struct {
	Code    int
	Message string
	Err     error
}

// WrapError 用业务码与提示消息包装底层错误
func WrapError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

// Unwrap 支持 errors.Is / errors.As 穿透到底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}
