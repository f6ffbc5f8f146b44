package count

import (
	"bufio"
	"io"
	"strings"

	"github.com/yeisme/codetree/pkg/models"
)

// MaxLineBytes 单行最大长度，超出时 ClassifyReader 返回 bufio.ErrTooLong
const MaxLineBytes = 16 * 1024 * 1024

// LineKind 单行的分类结果
type LineKind uint8

const (
	LineBlank LineKind = iota
	LineComment
	LineCode
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	default:
		return "code"
	}
}

// LineState 跨行传递的块注释状态，零值表示不在块注释中
// 状态只属于一个文件，每个文件都从零值开始
type LineState struct {
	end string // 当前块注释等待的结束标记
}

// InBlock 当前是否位于块注释内部
func (s LineState) InBlock() bool { return s.end != "" }

// ClassifyLine 对一行进行分类，返回分类结果和下一行使用的状态
//
// 规则依次为:
//  1. 去除首尾空白后为空 → 空行（不改变状态）
//  2. 处于块注释中 → 注释；若本行出现结束标记则退出块注释
//  3. 以块注释开始标记开头 → 注释；若同一行内没有结束标记则进入块注释
//  4. 以行注释前缀开头 → 注释
//  5. 其它 → 代码（行尾注释不单独识别，整行记为代码）
func ClassifyLine(line string, style CommentStyle, state LineState) (LineKind, LineState) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return LineBlank, state
	}

	if state.InBlock() {
		if strings.Contains(trimmed, state.end) {
			return LineComment, LineState{}
		}
		return LineComment, state
	}

	// 先判断块注释，像 Lua 的 "--[[" 同时以行注释前缀 "--" 开头
	for _, b := range style.Blocks {
		if b.Start == "" || !strings.HasPrefix(trimmed, b.Start) {
			continue
		}
		rest := trimmed[len(b.Start):]
		if b.End != "" && !strings.Contains(rest, b.End) {
			return LineComment, LineState{end: b.End}
		}
		return LineComment, LineState{}
	}

	if hasSingleLineCommentPrefix(trimmed, style.Single) {
		return LineComment, state
	}
	return LineCode, state
}

// ClassifyText 对内存中的完整文本逐行分类
// lang 未知时不做注释识别，所有非空行都计为代码
func ClassifyText(text, lang string) models.LineCounts {
	var lc models.LineCounts
	classifier := newClassifier(lang)
	eachLine(text, func(line string) {
		lc = classifier.add(lc, line)
	})
	return lc
}

// ClassifyReader 以流式方式逐行分类，用于内容过大、不适合整体读入内存的文件
func ClassifyReader(r io.Reader, lang string) (models.LineCounts, error) {
	var lc models.LineCounts
	classifier := newClassifier(lang)

	sc := bufio.NewScanner(r)
	// 提高最大 token 大小，避免超长行导致扫描失败
	sc.Buffer(make([]byte, 0, 64*1024), MaxLineBytes)
	for sc.Scan() {
		lc = classifier.add(lc, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return models.LineCounts{}, err
	}
	return lc, nil
}

// PerLineTags 返回每一行的分类，供渲染器按行着色
func PerLineTags(text, lang string) []LineKind {
	classifier := newClassifier(lang)
	tags := make([]LineKind, 0, strings.Count(text, "\n")+1)
	eachLine(text, func(line string) {
		tags = append(tags, classifier.step(line))
	})
	return tags
}

type classifier struct {
	style CommentStyle
	state LineState
}

func newClassifier(lang string) *classifier {
	// 未识别语言得到零值风格，ClassifyLine 自然退化为只区分空行与代码
	return &classifier{style: StyleFor(lang)}
}

func (c *classifier) step(line string) LineKind {
	var kind LineKind
	kind, c.state = ClassifyLine(line, c.style, c.state)
	return kind
}

func (c *classifier) add(lc models.LineCounts, line string) models.LineCounts {
	switch c.step(line) {
	case LineBlank:
		lc.Blank++
	case LineComment:
		lc.Comment++
	default:
		lc.Code++
	}
	lc.Total++
	return lc
}

// eachLine 与 bufio.ScanLines 的切分规则一致：
// 末尾换行不产生额外的空行，行尾的 \r 被去掉
func eachLine(text string, fn func(string)) {
	for text != "" {
		line, rest, found := strings.Cut(text, "\n")
		fn(strings.TrimSuffix(line, "\r"))
		if !found {
			return
		}
		text = rest
	}
}
