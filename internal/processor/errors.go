package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrFileNotFound   = errors.New("简历文件不存在")
	ErrReadFileFailed = errors.New("读取简历文件失败")
)

// DocumentProcessError 包含详细错误信息的自定义错误
type DocumentProcessError struct {
	FileName string
	Op       string
	BaseErr  error
	Detail   string
}

func (e *DocumentProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 文件:%s): %s", e.BaseErr, e.Op, e.FileName, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 文件:%s)", e.BaseErr, e.Op, e.FileName)
}

func (e *DocumentProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *DocumentProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewFileNotFoundError(fileName, detail string) error {
	return &DocumentProcessError{
		FileName: fileName,
		Op:       "open",
		BaseErr:  ErrFileNotFound,
		Detail:   detail,
	}
}

func NewReadFileError(fileName, detail string) error {
	return &DocumentProcessError{
		FileName: fileName,
		Op:       "read",
		BaseErr:  ErrReadFileFailed,
		Detail:   detail,
	}
}
