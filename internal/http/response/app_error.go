package response

// AppError 携带信封状态码的错误包装。处理层把业务哨兵错误映射成
// AppError 后统一出响应，原始错误链通过 Unwrap 保留。
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// WrapError 把原始错误包装成带状态码与展示消息的 AppError
func WrapError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
