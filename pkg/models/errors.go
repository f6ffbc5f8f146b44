package models

import (
	"errors"
	"io/fs"
)

var (
	// ErrRootNotFound 扫描根目录不存在，属于致命错误
	ErrRootNotFound = errors.New("root path not found")
	// ErrRootNotDirectory 扫描根路径不是目录
	ErrRootNotDirectory = errors.New("root path is not a directory")
)

// ErrorKind 单个条目上的错误分类
type ErrorKind string

const (
	ErrorPathNotFound     ErrorKind = "path-not-found"
	ErrorPermissionDenied ErrorKind = "permission-denied"
	ErrorIO               ErrorKind = "io-error"
)

// EntryError 记录在某个条目上、不会中断扫描的错误
type EntryError struct {
	Path    string    `json:"path" yaml:"path"`
	Kind    ErrorKind `json:"kind" yaml:"kind"`
	Message string    `json:"message" yaml:"message"`
}

// NewEntryError 根据底层错误归类并构造 EntryError
func NewEntryError(path string, err error) *EntryError {
	kind := ErrorIO
	switch {
	case errors.Is(err, fs.ErrPermission):
		kind = ErrorPermissionDenied
	case errors.Is(err, fs.ErrNotExist):
		kind = ErrorPathNotFound
	}
	return &EntryError{Path: path, Kind: kind, Message: err.Error()}
}
