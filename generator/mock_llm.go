package generator

import (
	"context"
	"fmt"
	"regexp"
)

var promptNameRe = regexp.MustCompile(`(?:학생 성명|이름)\s*:\s*([^,\n]+)`)

// MockLLM 외부 모델을 호출하지 않는 로컬 디버깅용 구현. Its output carries the
// usual noise (bold heading, bracket tag, name with particle) so the
// sanitizer has something to do.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt) (string, error) {
	name := "학생"
	if sub := promptNameRe.FindStringSubmatch(prompt.User); len(sub) == 2 {
		name = sub[1]
	}
	return fmt.Sprintf("**초안**\n[자동생성] %s은 주어진 활동에 성실하게 참여하였음.", name), nil
}
