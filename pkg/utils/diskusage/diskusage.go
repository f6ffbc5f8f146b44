// Package diskusage 测量文件的逻辑大小与磁盘实际占用
//
// 实际占用来自平台存储元数据，稀疏文件与文件系统压缩都会让它小于逻辑大小
// 平台无法提供时退化为逻辑大小，并在结果中标记 Fallback
package diskusage

import (
	"io/fs"
	"path/filepath"

	"github.com/yeisme/codetree/pkg/models"
)

// Measure 测量单个路径（不跟随符号链接），每次调用都直接查询文件系统
func Measure(path string) (models.SizeMeasurement, error) {
	return measure(path)
}

// Tree 汇总一个子树中所有普通文件的大小与数量，用于被排除目录的统计
// 尽力而为：无法访问的条目被跳过
func Tree(root string) (models.SizeMeasurement, int) {
	var total models.SizeMeasurement
	files := 0
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		m, merr := measure(path)
		if merr != nil {
			return nil
		}
		total.Add(m)
		files++
		return nil
	})
	return total, files
}
