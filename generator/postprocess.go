package generator

import (
	"regexp"
	"strings"
)

var (
	boldLineRe      = regexp.MustCompile(`(?m)^\*\*.*?\*\*.*$`)
	bracketPrefixRe = regexp.MustCompile(`(?m)^\[.*?\]`)
	preambleRe      = regexp.MustCompile(`(?i)^다음은.*?입니다\.?\s*`)
	leadParticleRe  = regexp.MustCompile(`^[은는가]\s*`)
)

// nameParticles are the subject, topic and possessive markers that may
// follow a student's name.
var nameParticles = []string{"은", "는", "이", "가", "의"}

// honorifics replace the name when the model refers to the student indirectly.
var honorifics = []string{"이 학생은", "학생은", "본인은"}

// Sanitize strips markdown residue, preambles, name references and leading
// particles from generated text. Passes repeat until the text stops changing,
// so Sanitize(Sanitize(t, n), n) == Sanitize(t, n).
func Sanitize(text, studentName string) string {
	name := strings.TrimSpace(studentName)
	for {
		next := sanitizeOnce(text, name)
		if next == text {
			return next
		}
		text = next
	}
}

func sanitizeOnce(text, name string) string {
	// 1. 마크다운 및 군소리
	text = boldLineRe.ReplaceAllString(text, "")
	text = bracketPrefixRe.ReplaceAllString(text, "")
	text = preambleRe.ReplaceAllString(text, "")

	// 2. 이름 및 호칭
	if name != "" {
		for _, p := range nameParticles {
			text = strings.ReplaceAll(text, name+p, "")
		}
		text = strings.ReplaceAll(text, name, "")
	}
	for _, h := range honorifics {
		text = strings.ReplaceAll(text, h, "")
	}

	// 3. 앞뒤 따옴표 및 공백
	text = strings.TrimSpace(text)
	text = trimOne(text, `"`)
	text = trimOne(text, `'`)
	text = strings.TrimSpace(text)

	// 4. 문장 시작 조사
	return leadParticleRe.ReplaceAllString(text, "")
}

func trimOne(s, quote string) string {
	s = strings.TrimPrefix(s, quote)
	return strings.TrimSuffix(s, quote)
}
