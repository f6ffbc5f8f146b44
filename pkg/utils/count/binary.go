package count

import "bytes"

// SniffLen 判断二进制文件时检查的前缀长度
const SniffLen = 8000

// IsBinary 前 SniffLen 字节内出现 NUL 即视为二进制
func IsBinary(head []byte) bool {
	if len(head) > SniffLen {
		head = head[:SniffLen]
	}
	return bytes.IndexByte(head, 0) >= 0
}
