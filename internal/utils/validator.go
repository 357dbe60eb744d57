package utils

import "strings"

// htmlEscaper 转义 & < > " ' 五个字符，单引号输出为 &#039;
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// EscapeHTML 转义用户输入中对 HTML 有意义的字符，存储前调用
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

// SanitizeText 去掉首尾空白后转义
func SanitizeText(s string) string {
	return EscapeHTML(strings.TrimSpace(s))
}

// IsBlank 判断字符串是否为空或只包含空白
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
