//go:build unix

package diskusage

import (
	"io/fs"

	"golang.org/x/sys/unix"

	"github.com/yeisme/codetree/pkg/models"
)

// st_blocks 的单位固定为 512 字节，与文件系统块大小无关
const blockUnit = 512

func measure(path string) (models.SizeMeasurement, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return models.SizeMeasurement{}, &fs.PathError{Op: "lstat", Path: path, Err: err}
	}
	return models.SizeMeasurement{
		Logical:   int64(st.Size),
		Allocated: int64(st.Blocks) * blockUnit,
	}, nil
}
