package detect

import (
	"bufio"
	"encoding/json"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
)

// manifest 从清单文件中解析出的依赖表和项目自身版本
type manifest struct {
	deps    map[string]string // 小写依赖名 -> 版本约束（可能为空）
	version string
}

func (m *manifest) add(name, version string) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return
	}
	if _, ok := m.deps[name]; !ok || m.deps[name] == "" {
		m.deps[name] = strings.TrimSpace(version)
	}
}

// lookup 查找依赖，返回版本约束和是否存在
func (m *manifest) lookup(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.deps[strings.ToLower(name)]
	return v, ok
}

// supportsManifest 该文件名是否有对应的依赖解析器
func supportsManifest(name string) bool {
	_, ok := manifestParsers[path.Base(name)]
	return ok
}

var manifestParsers = map[string]func([]byte, *manifest) error{
	"package.json":     parsePackageJSON,
	"composer.json":    parseComposerJSON,
	"Cargo.toml":       parseCargoToml,
	"pyproject.toml":   parsePyproject,
	"requirements.txt": parseRequirements,
	"go.mod":           parseGoMod,
	"Gemfile":          parseGemfile,
}

// parseManifest 按文件基础名选择解析器
func parseManifest(name string, data []byte) (*manifest, error) {
	parse, ok := manifestParsers[path.Base(name)]
	if !ok {
		return nil, fmt.Errorf("unsupported manifest: %s", name)
	}
	m := &manifest{deps: map[string]string{}}
	if err := parse(data, m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return m, nil
}

func parsePackageJSON(data []byte, m *manifest) error {
	var pkg struct {
		Version          string            `json:"version"`
		Dependencies     map[string]string `json:"dependencies"`
		DevDependencies  map[string]string `json:"devDependencies"`
		PeerDependencies map[string]string `json:"peerDependencies"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return err
	}
	m.version = pkg.Version
	for _, deps := range []map[string]string{pkg.Dependencies, pkg.DevDependencies, pkg.PeerDependencies} {
		for name, v := range deps {
			m.add(name, v)
		}
	}
	return nil
}

func parseComposerJSON(data []byte, m *manifest) error {
	var pkg struct {
		Version    string            `json:"version"`
		Require    map[string]string `json:"require"`
		RequireDev map[string]string `json:"require-dev"`
	}
	if err := json.Unmarshal(data, &pkg); err != nil {
		return err
	}
	m.version = pkg.Version
	for _, deps := range []map[string]string{pkg.Require, pkg.RequireDev} {
		for name, v := range deps {
			m.add(name, v)
		}
	}
	return nil
}

// tomlDepVersion Cargo/Poetry 的依赖值可以是字符串，也可以是带 version 字段的表
func tomlDepVersion(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		if s, ok := t["version"].(string); ok {
			return s
		}
	}
	return ""
}

func parseCargoToml(data []byte, m *manifest) error {
	var cargo struct {
		Package struct {
			Version any `toml:"version"`
		} `toml:"package"`
		Dependencies      map[string]any `toml:"dependencies"`
		DevDependencies   map[string]any `toml:"dev-dependencies"`
		BuildDependencies map[string]any `toml:"build-dependencies"`
		Workspace         struct {
			Dependencies map[string]any `toml:"dependencies"`
		} `toml:"workspace"`
	}
	if err := toml.Unmarshal(data, &cargo); err != nil {
		return err
	}
	// workspace 继承时 version 是 { workspace = true }
	if s, ok := cargo.Package.Version.(string); ok {
		m.version = s
	}
	for _, deps := range []map[string]any{cargo.Dependencies, cargo.DevDependencies, cargo.BuildDependencies, cargo.Workspace.Dependencies} {
		for name, v := range deps {
			m.add(name, tomlDepVersion(v))
		}
	}
	return nil
}

// requirementRe 匹配 PEP 508 依赖声明开头的包名与可选的版本约束
var requirementRe = regexp.MustCompile(`^([A-Za-z0-9][A-Za-z0-9._-]*)\s*(?:\[[^\]]*\])?\s*([<>=!~][^;#]*)?`)

func addRequirement(line string, m *manifest) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "-") {
		return
	}
	match := requirementRe.FindStringSubmatch(line)
	if match == nil {
		return
	}
	m.add(match[1], strings.TrimSpace(match[2]))
}

func parsePyproject(data []byte, m *manifest) error {
	var py struct {
		Project struct {
			Version              string              `toml:"version"`
			Dependencies         []string            `toml:"dependencies"`
			OptionalDependencies map[string][]string `toml:"optional-dependencies"`
		} `toml:"project"`
		Tool struct {
			Poetry struct {
				Version         string         `toml:"version"`
				Dependencies    map[string]any `toml:"dependencies"`
				DevDependencies map[string]any `toml:"dev-dependencies"`
			} `toml:"poetry"`
		} `toml:"tool"`
	}
	if err := toml.Unmarshal(data, &py); err != nil {
		return err
	}
	m.version = py.Project.Version
	if m.version == "" {
		m.version = py.Tool.Poetry.Version
	}
	for _, d := range py.Project.Dependencies {
		addRequirement(d, m)
	}
	for _, group := range py.Project.OptionalDependencies {
		for _, d := range group {
			addRequirement(d, m)
		}
	}
	for _, deps := range []map[string]any{py.Tool.Poetry.Dependencies, py.Tool.Poetry.DevDependencies} {
		for name, v := range deps {
			if strings.EqualFold(name, "python") {
				continue
			}
			m.add(name, tomlDepVersion(v))
		}
	}
	return nil
}

func parseRequirements(data []byte, m *manifest) error {
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		addRequirement(sc.Text(), m)
	}
	return sc.Err()
}

func parseGoMod(data []byte, m *manifest) error {
	f, err := modfile.ParseLax("go.mod", data, nil)
	if err != nil {
		return err
	}
	if f.Go != nil {
		m.version = f.Go.Version
	}
	for _, r := range f.Require {
		m.add(r.Mod.Path, r.Mod.Version)
	}
	return nil
}

// gemRe 匹配 Gemfile 中的 gem 'name', 'constraint'
var gemRe = regexp.MustCompile(`^\s*gem\s+['"]([^'"]+)['"](?:\s*,\s*['"]([^'"]+)['"])?`)

func parseGemfile(data []byte, m *manifest) error {
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	for sc.Scan() {
		if match := gemRe.FindStringSubmatch(sc.Text()); match != nil {
			m.add(match[1], match[2])
		}
	}
	return sc.Err()
}
