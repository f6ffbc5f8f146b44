// Package sensitive 判断文件内容是否需要在报告中脱敏
//
// 文件名规则优先且无条件生效；文件名未命中时再检查内容样本
// 脱敏只影响报告中是否附带正文，行数与大小统计照常计算
package sensitive

import (
	"bytes"
	"path"
	"regexp"
	"strings"

	"github.com/joho/godotenv"

	"github.com/yeisme/codetree/pkg/models"
)

// Placeholder 脱敏文件在报告中替代正文的文本
const Placeholder = "[SENSITIVE FILE - Content Protected]"

// SampleBytes 超大文件用于内容检测的样本长度
const SampleBytes = 64 * 1024

// denylist 明确列出的敏感文件名
var denylist = map[string]struct{}{
	"credentials.json":         {},
	"secrets.json":             {},
	"secrets.yml":              {},
	"secrets.yaml":             {},
	"aws-config.json":          {},
	"firebase-config.json":     {},
	"service-account.json":     {},
	"database.yml":             {},
	"wp-config.php":            {},
	"application-secrets.yml":  {},
	".npmrc":                   {},
	".pypirc":                  {},
	".netrc":                   {},
	".pgpass":                  {},
	".htpasswd":                {},
	".git-credentials":         {},
	"terraform.tfstate":        {},
	"terraform.tfstate.backup": {},
}

// denySuffixes 文件名以这些名字结尾即脱敏，如 app-config.json、src/main/resources/application.properties
var denySuffixes = []string{
	"config.json",
	"config.py",
	"settings.py",
	"application.properties",
}

// keyFileExts 私钥与证书容器
var keyFileExts = map[string]struct{}{
	".pem": {}, ".key": {}, ".p12": {}, ".pfx": {}, ".jks": {},
	".keystore": {}, ".ppk": {}, ".asc": {}, ".gpg": {},
}

// keyFileNames SSH 私钥的常见文件名
var keyFileNames = map[string]struct{}{
	"id_rsa": {}, "id_dsa": {}, "id_ecdsa": {}, "id_ed25519": {},
}

// credentialDirs 路径中出现即视为凭据目录
var credentialDirs = map[string]struct{}{
	".aws": {}, ".ssh": {}, ".gnupg": {}, ".docker": {}, ".kube": {},
}

// credentialNameRe 文件名本身就表明保存的是凭据
var credentialNameRe = regexp.MustCompile(`(?i)^(.*[._-])?(credentials?|secrets?|passwords?|tokens?|apikeys?)([._-].*)?$`)

type contentRule struct {
	reason models.RedactionReason
	detail string
	re     *regexp.Regexp
}

// contentRules 按顺序匹配，第一个命中的规则生效
var contentRules = []contentRule{
	{models.RedactKey, "private key block", regexp.MustCompile(`-----BEGIN ((RSA|DSA|EC|OPENSSH|PGP|ENCRYPTED) )?PRIVATE KEY( BLOCK)?-----`)},
	{models.RedactConnectionString, "connection string with credentials", regexp.MustCompile(`(?i)\b(postgres(ql)?|mysql|mariadb|mongodb(\+srv)?|redis|rediss|amqps?|mssql|sqlserver)://[^\s:/@]+:[^\s@/]+@`)},
	{models.RedactCredential, "AWS access key id", regexp.MustCompile(`\b(AKIA|ASIA)[0-9A-Z]{16}\b`)},
	{models.RedactCredential, "GitHub token", regexp.MustCompile(`\bgh[pousr]_[A-Za-z0-9]{36,}\b`)},
	{models.RedactCredential, "Slack token", regexp.MustCompile(`\bxox[abprs]-[A-Za-z0-9-]{10,}`)},
	{models.RedactCredential, "Google API key", regexp.MustCompile(`\bAIza[0-9A-Za-z_-]{35}\b`)},
	{models.RedactCredential, "secret assignment", regexp.MustCompile(`(?i)(api[_-]?key|secret[_-]?key|access[_-]?token|auth[_-]?token|password|passwd|client[_-]?secret)["']?\s*[:=]\s*["'][^"'\s]{8,}["']`)},
}

// secretKeyRe env 变量名表明其值是机密
var secretKeyRe = regexp.MustCompile(`(?i)(secret|token|passw(or)?d|pwd|api[_-]?key|private[_-]?key|credential|auth)`)

// IsEnvFile 是否为 dotenv 风格的文件名
func IsEnvFile(name string) bool {
	base := path.Base(name)
	return base == ".env" || base == ".envrc" ||
		strings.HasPrefix(base, ".env.") || strings.HasSuffix(base, ".env")
}

// Detect 判断文件是否需要脱敏，返回 nil 表示不需要
// relPath 为相对根目录的路径，sample 为文件内容（或其开头部分），可以为空
func Detect(relPath string, sample []byte) *models.RedactionRecord {
	relPath = strings.ReplaceAll(relPath, "\\", "/")
	if reason, detail, ok := byName(relPath); ok {
		return &models.RedactionRecord{Path: relPath, Reason: reason, Detail: detail}
	}
	if len(sample) == 0 {
		return nil
	}
	if reason, detail, ok := byContent(sample); ok {
		return &models.RedactionRecord{Path: relPath, Reason: reason, Detail: detail}
	}
	if looksLikeEnv(relPath, sample) {
		if key, ok := secretEnvKey(sample); ok {
			return &models.RedactionRecord{Path: relPath, Reason: models.RedactCredential, Detail: "secret variable " + key}
		}
	}
	return nil
}

func byName(relPath string) (models.RedactionReason, string, bool) {
	base := path.Base(relPath)
	lower := strings.ToLower(base)

	if IsEnvFile(lower) {
		// 模板文件只包含占位值
		if !isEnvTemplate(lower) {
			return models.RedactEnvFile, "environment file", true
		}
	}
	if _, ok := denylist[lower]; ok {
		return models.RedactDenylist, "known secrets file", true
	}
	for _, suffix := range denySuffixes {
		if strings.HasSuffix(lower, suffix) {
			return models.RedactDenylist, "known config file", true
		}
	}
	if _, ok := keyFileNames[lower]; ok {
		return models.RedactKey, "ssh private key", true
	}
	if _, ok := keyFileExts[path.Ext(lower)]; ok {
		return models.RedactKey, "key or certificate container", true
	}
	for _, dir := range strings.Split(path.Dir(relPath), "/") {
		if _, ok := credentialDirs[dir]; ok {
			return models.RedactCredential, "inside " + dir, true
		}
	}
	if credentialNameRe.MatchString(base) && !isSourceFile(lower) {
		return models.RedactCredential, "credential file name", true
	}
	return "", "", false
}

func isEnvTemplate(lower string) bool {
	for _, suffix := range []string{".example", ".sample", ".template", ".dist"} {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// isSourceFile 像 token.go、password_test.py 这样的源码文件名不视为凭据
func isSourceFile(lower string) bool {
	switch path.Ext(lower) {
	case ".go", ".rs", ".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".kt", ".rb", ".php",
		".cs", ".c", ".h", ".cpp", ".hpp", ".swift", ".scala", ".md", ".txt", ".html", ".css":
		return true
	}
	return false
}

func byContent(sample []byte) (models.RedactionReason, string, bool) {
	for _, r := range contentRules {
		if r.re.Match(sample) {
			return r.reason, r.detail, true
		}
	}
	return "", "", false
}

// looksLikeEnv 文件名或内容形如 KEY=VALUE 列表
func looksLikeEnv(relPath string, sample []byte) bool {
	if IsEnvFile(strings.ToLower(relPath)) {
		return bytes.IndexByte(sample, '=') >= 0
	}
	switch strings.ToLower(path.Ext(relPath)) {
	case ".env", ".properties", ".ini", ".cfg", ".conf", "":
	default:
		return false
	}
	return bytes.IndexByte(sample, '=') >= 0
}

// secretEnvKey 用 godotenv 解析，找出名字像机密且带值的变量
func secretEnvKey(sample []byte) (string, bool) {
	vars, err := godotenv.UnmarshalBytes(sample)
	if err != nil {
		return "", false
	}
	best := ""
	for k, v := range vars {
		if strings.TrimSpace(v) == "" || !secretKeyRe.MatchString(k) {
			continue
		}
		if best == "" || k < best {
			best = k
		}
	}
	return best, best != ""
}
