// Package links 负责把用户随手输入的链接文本（裸域名、邮箱、电话、锚点）
// 改写为 PDF 里可点击的完整 URI。
package links

import (
	"regexp"
	"strings"
)

var (
	schemeRe = regexp.MustCompile(`(?i)^(https?|mailto|tel):`)
	phoneRe  = regexp.MustCompile(`^[+\d\s()\-]{7,}$`)
	digitRe  = regexp.MustCompile(`[^\d+]`)
)

// Normalize 把原始链接文本改写为完整 URI。分类按优先级进行：
//
//  1. 已带 http(s)/mailto/tel scheme → 原样返回；
//  2. "#" 开头的锚点 → 用 baseURL 补全为绝对地址（PDF 中没有文档上下文）；
//  3. 含 "@" 且无空格 → mailto:；
//  4. 形如电话号码（数字/空格/括号/+/-，长度 ≥7）→ 压缩为数字后加 tel:；
//  5. 含 "." 且无空格无 "/" → 视为裸域名加 https://；
//  6. 其余一律加 https://。
//
// 规则 3 必须先于规则 5（邮箱也含点），规则 1 必须最先短路。
// 空输入返回空串，Normalize 是幂等的。
func Normalize(raw, baseURL string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if schemeRe.MatchString(s) {
		return s
	}

	if strings.HasPrefix(s, "#") {
		base, _, _ := strings.Cut(baseURL, "#")
		return base + s
	}

	if strings.Contains(s, "@") && !strings.ContainsAny(s, " \t") {
		return "mailto:" + s
	}

	if phoneRe.MatchString(s) {
		return "tel:" + digitRe.ReplaceAllString(s, "")
	}

	// 规则 5 与 6 的结果一致（都补 https://），这里合并处理。
	return "https://" + s
}
