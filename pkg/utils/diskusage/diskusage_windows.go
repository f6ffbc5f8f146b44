//go:build windows

package diskusage

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/yeisme/codetree/pkg/models"
)

const invalidFileSize = 0xFFFFFFFF

// GetCompressedFileSizeW 对压缩文件返回压缩后的大小，对稀疏文件返回实际分配的大小
var procGetCompressedFileSizeW = windows.NewLazySystemDLL("kernel32.dll").NewProc("GetCompressedFileSizeW")

func measure(path string) (models.SizeMeasurement, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		return models.SizeMeasurement{}, err
	}
	logical := fi.Size()
	fallback := models.SizeMeasurement{Logical: logical, Allocated: logical, Fallback: true}
	if fi.IsDir() || procGetCompressedFileSizeW.Find() != nil {
		return fallback, nil
	}

	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return fallback, nil
	}
	var high uint32
	low, _, callErr := procGetCompressedFileSizeW.Call(uintptr(unsafe.Pointer(p)), uintptr(unsafe.Pointer(&high)))
	if uint32(low) == invalidFileSize && callErr != windows.ERROR_SUCCESS {
		return fallback, nil
	}
	return models.SizeMeasurement{
		Logical:   logical,
		Allocated: int64(high)<<32 | int64(uint32(low)),
	}, nil
}
