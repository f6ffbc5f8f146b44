package project

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeisme/codetree/pkg/models"
	"github.com/yeisme/codetree/pkg/report"
)

// StdoutName 输出名为 "-" 时报告写到标准输出，不产生文件
const StdoutName = "-"

// OutputPath 计算报告文件的绝对路径
// 相对的 name 放在扫描根目录下，name 没有该格式的扩展名时自动补上
func OutputPath(root, name, ext string) (string, error) {
	if name == "" || name == StdoutName {
		return "", nil
	}
	if !strings.EqualFold(filepath.Ext(name), "."+ext) {
		name += "." + ext
	}
	if !filepath.IsAbs(name) {
		name = filepath.Join(root, name)
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	return abs, nil
}

// Render 将报告渲染到内存
func Render(r report.Renderer, rep *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, rep); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteReport 先写入同目录下的临时文件再重命名，避免留下写了一半的报告
func WriteReport(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".codetree-*.tmp")
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return fmt.Errorf("write report file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("close report file: %w", err)
	}
	if err := os.Chmod(name, 0o644); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("chmod report file: %w", err)
	}
	if err := os.Rename(name, path); err != nil {
		_ = os.Remove(name)
		return fmt.Errorf("rename report file: %w", err)
	}
	return nil
}
