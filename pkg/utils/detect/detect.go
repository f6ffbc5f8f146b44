// Package detect 根据标记文件识别项目类型与框架
package detect

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/yeisme/codetree/pkg/models"
)

const (
	// MaxMarkerBytes 读取单个标记文件的上限
	MaxMarkerBytes = 1 << 20
	// MaxGlobDepth glob 标记允许的最大搜索深度
	MaxGlobDepth = 3
	// UnknownVersion 框架命中但无法取得版本时的占位
	UnknownVersion = "?"
)

//go:embed signatures.yaml
var signaturesYAML []byte

// Table 只读的签名规则表
type Table struct {
	Signatures []models.Signature `yaml:"signatures"`
}

// LoadTable 解析并校验 YAML 规则表
func LoadTable(data []byte) (*Table, error) {
	var t Table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse signatures: %w", err)
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Table) validate() error {
	seen := make(map[string]struct{}, len(t.Signatures))
	for i, s := range t.Signatures {
		if s.Name == "" {
			return fmt.Errorf("signature #%d: empty name", i)
		}
		if _, dup := seen[s.Name]; dup {
			return fmt.Errorf("signature %q: duplicated", s.Name)
		}
		seen[s.Name] = struct{}{}
		if s.Kind != models.SignatureProject && s.Kind != models.SignatureFramework {
			return fmt.Errorf("signature %q: invalid kind %q", s.Name, s.Kind)
		}
		if s.Match != "" && s.Match != "any" && s.Match != "all" {
			return fmt.Errorf("signature %q: invalid match %q", s.Name, s.Match)
		}
		if len(s.Markers) == 0 {
			return fmt.Errorf("signature %q: no markers", s.Name)
		}
		for _, m := range s.Markers {
			set := 0
			for _, v := range []string{m.File, m.Dir, m.Glob} {
				if v != "" {
					set++
				}
			}
			if set != 1 {
				return fmt.Errorf("signature %q: marker must set exactly one of file/dir/glob", s.Name)
			}
			if m.Depth < 0 || m.Depth > MaxGlobDepth {
				return fmt.Errorf("signature %q: glob depth %d out of range", s.Name, m.Depth)
			}
			if m.Dir != "" && (m.Contains != "" || m.Dependency != "") {
				return fmt.Errorf("signature %q: dir marker cannot check content", s.Name)
			}
		}
	}
	return nil
}

// DefaultTable 内置规则表，只加载一次
var DefaultTable = sync.OnceValues(func() (*Table, error) {
	return LoadTable(signaturesYAML)
})

// Classify 使用内置规则表对 fsys 根目录进行分类
// 没有任何签名命中时返回空切片，这不是错误
func Classify(fsys fs.FS) ([]models.MatchedSignature, error) {
	t, err := DefaultTable()
	if err != nil {
		return nil, err
	}
	return t.Classify(fsys)
}

// Classify 依次评估每个签名，结果按 (项目优先, 名称) 排序
func (t *Table) Classify(fsys fs.FS) ([]models.MatchedSignature, error) {
	ev := &evaluator{fsys: fsys, files: map[string][]byte{}, manifests: map[string]*manifest{}}
	matched := make([]models.MatchedSignature, 0)
	for _, sig := range t.Signatures {
		if ms, ok := ev.evaluate(sig); ok {
			matched = append(matched, ms)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Kind != matched[j].Kind {
			return matched[i].Kind == models.SignatureProject
		}
		return matched[i].Name < matched[j].Name
	})
	return matched, nil
}

// evaluator 一次分类过程中的读取缓存，不跨调用共享
type evaluator struct {
	fsys      fs.FS
	files     map[string][]byte
	manifests map[string]*manifest
	globs     map[string][]string
}

func (ev *evaluator) evaluate(sig models.Signature) (models.MatchedSignature, bool) {
	all := sig.Match == "all"
	var evidence []string
	version := ""
	for _, m := range sig.Markers {
		hits, v := ev.check(m)
		if len(hits) == 0 {
			if all {
				return models.MatchedSignature{}, false
			}
			continue
		}
		evidence = append(evidence, hits...)
		if version == "" {
			version = v
		}
	}
	if len(evidence) == 0 {
		return models.MatchedSignature{}, false
	}

	if sig.VersionFrom != "" {
		if mf := ev.manifest(sig.VersionFrom); mf != nil && mf.version != "" {
			version = mf.version
		}
	}
	if version == "" && sig.Kind == models.SignatureFramework {
		version = UnknownVersion
	}

	return models.MatchedSignature{
		Name:         sig.Name,
		Kind:         sig.Kind,
		Category:     sig.Category,
		Version:      version,
		Evidence:     dedupe(evidence),
		ExcludeDirs:  sig.ExcludeDirs,
		ExcludeFiles: sig.ExcludeFiles,
	}, true
}

// check 返回命中该标记的路径，以及从清单中得到的依赖版本
func (ev *evaluator) check(m models.Marker) ([]string, string) {
	switch {
	case m.Dir != "":
		if st, err := fs.Stat(ev.fsys, clean(m.Dir)); err == nil && st.IsDir() {
			return []string{clean(m.Dir)}, ""
		}
		return nil, ""
	case m.File != "":
		name := clean(m.File)
		if st, err := fs.Stat(ev.fsys, name); err != nil || st.IsDir() {
			return nil, ""
		}
		return ev.checkContent(name, m)
	default:
		var hits []string
		version := ""
		for _, name := range ev.glob(m.Glob, m.Depth) {
			h, v := ev.checkContent(name, m)
			hits = append(hits, h...)
			if version == "" {
				version = v
			}
		}
		return hits, version
	}
}

func (ev *evaluator) checkContent(name string, m models.Marker) ([]string, string) {
	switch {
	case m.Dependency != "":
		v, ok := ev.manifest(name).lookup(m.Dependency)
		if !ok {
			return nil, ""
		}
		return []string{name}, v
	case m.Contains != "":
		if !strings.Contains(string(ev.read(name)), m.Contains) {
			return nil, ""
		}
	}
	return []string{name}, ""
}

// read 读取标记文件，最多 MaxMarkerBytes 字节，失败时返回 nil
func (ev *evaluator) read(name string) []byte {
	if b, ok := ev.files[name]; ok {
		return b
	}
	var data []byte
	f, err := ev.fsys.Open(name)
	if err == nil {
		data, err = io.ReadAll(io.LimitReader(f, MaxMarkerBytes))
		_ = f.Close()
	}
	if err != nil {
		log.Debug().Err(err).Str("marker", name).Msg("read marker failed")
		data = nil
	}
	ev.files[name] = data
	return data
}

func (ev *evaluator) manifest(name string) *manifest {
	name = clean(name)
	if mf, ok := ev.manifests[name]; ok {
		return mf
	}
	var mf *manifest
	if supportsManifest(name) {
		if data := ev.read(name); data != nil {
			var err error
			if mf, err = parseManifest(name, data); err != nil {
				log.Debug().Err(err).Str("manifest", name).Msg("manifest ignored")
			}
		}
	}
	ev.manifests[name] = mf
	return mf
}

// skipGlobDirs glob 搜索时不进入的目录
var skipGlobDirs = map[string]struct{}{
	"node_modules": {}, "vendor": {}, "target": {}, "bin": {}, "obj": {},
}

// glob 在 depth 层以内按基础名匹配文件，结果按路径排序
func (ev *evaluator) glob(pattern string, depth int) []string {
	key := fmt.Sprintf("%s|%d", pattern, depth)
	if ev.globs == nil {
		ev.globs = map[string][]string{}
	}
	if hits, ok := ev.globs[key]; ok {
		return hits
	}
	var hits []string
	err := fs.WalkDir(ev.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." {
				return err
			}
			return nil
		}
		if d.IsDir() {
			if p == "." {
				return nil
			}
			if _, skip := skipGlobDirs[d.Name()]; skip || strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			if strings.Count(p, "/") >= depth {
				return fs.SkipDir
			}
			return nil
		}
		if ok, _ := path.Match(pattern, d.Name()); ok {
			hits = append(hits, p)
		}
		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Debug().Err(err).Str("glob", pattern).Msg("glob marker walk failed")
	}
	ev.globs[key] = hits
	return hits
}

func clean(p string) string {
	return path.Clean(strings.TrimPrefix(strings.ReplaceAll(p, "\\", "/"), "/"))
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
