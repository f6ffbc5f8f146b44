package scanner

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/yeisme/codetree/pkg/models"
	"github.com/yeisme/codetree/pkg/utils/count"
	"github.com/yeisme/codetree/pkg/utils/diskusage"
	"github.com/yeisme/codetree/pkg/utils/sensitive"
)

// scanFile 统计单个文件
//
//  1. 测量逻辑大小与实际占用
//  2. 前 count.SniffLen 字节出现 NUL 视为二进制，只计大小
//  3. 不超过 MaxContentBytes 的文件整体读入，检测敏感内容并分类，未脱敏时附带正文
//  4. 更大的文件只取样本做敏感检测，其余部分流式分类，不附带正文
func (s *Scanner) scanFile(e *models.Entry) *node {
	n := &node{entry: e}
	e.Extension = strings.ToLower(extOf(e.Name))
	e.Language, e.LanguageRecognized = count.DetectLanguage(e.Name)

	size, err := diskusage.Measure(e.AbsPath)
	if err != nil {
		n.fail(e, err)
		return n
	}
	e.Size = size

	f, err := os.Open(e.AbsPath)
	if err != nil {
		n.fail(e, err)
		return n
	}
	defer func() { _ = f.Close() }()

	var red *models.RedactionRecord
	if size.Logical <= s.opts.MaxContentBytes {
		data, err := io.ReadAll(io.LimitReader(f, s.opts.MaxContentBytes))
		if err != nil {
			n.fail(e, err)
			return n
		}
		if count.IsBinary(data) {
			return s.binary(n)
		}
		text := string(data)
		red = sensitive.Detect(e.Path, data)
		e.Lines = count.ClassifyText(text, e.Language)
		if red == nil {
			e.Content = &text
		}
	} else {
		head := make([]byte, max(sensitive.SampleBytes, count.SniffLen))
		k, err := io.ReadFull(f, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			n.fail(e, err)
			return n
		}
		head = head[:k]
		if count.IsBinary(head) {
			return s.binary(n)
		}
		red = sensitive.Detect(e.Path, head)
		lines, err := count.ClassifyReader(io.MultiReader(bytes.NewReader(head), f), e.Language)
		if err != nil {
			n.fail(e, err)
			return n
		}
		e.Lines = lines
		e.ContentOmitted = true
	}

	if red != nil {
		e.Redacted = true
		n.redactions = append(n.redactions, *red)
	}
	return n
}

// binary 二进制文件不计行数也不附带正文，但敏感文件名（如 .p12）仍然记录脱敏
func (s *Scanner) binary(n *node) *node {
	n.entry.Binary = true
	if red := sensitive.Detect(n.entry.Path, nil); red != nil {
		n.entry.Redacted = true
		n.redactions = append(n.redactions, *red)
	}
	return n
}

// extOf 取扩展名，像 .gitignore 这样的隐藏文件没有扩展名
func extOf(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return name[i:]
}
