package generator

import (
	"fmt"
	"strings"

	"github.com/rjegjin/Specific-Skills-and-Accomplishments/record"
)

// Prompt LLM에 보내는 메시지 쌍.
type Prompt struct {
	System string
	User   string
}

// Templates maps each narrative area to its system instruction.
type Templates map[record.Area]string

const commonRules = `
[불변의 원칙 - 위반 시 전체 데이터 파손]
1. 문체 통일: 모든 문장은 반드시 '~하였음.'으로 종결하십시오. (예: '~하였음.', '~보였음.')
2. 호칭 금지: 문장에 'OO 학생', '이 학생', '이름', '본인' 등 어떤 호칭도 넣지 마십시오. 주어 없이 활동으로 시작하십시오.
3. 군소리 제거: "다음은 내용입니다" 등 서론/결론/인사를 절대 적지 마십시오. 오직 순수 본문만 출력하십시오.
4. 마크다운 금지: **볼드체**, [대괄호태그], 따옴표("")를 절대 사용하지 마십시오.

[검증 지침]
5. 기재 금지어 배제: 대학교, 수상, 부모 직업, 학원 등 나이스 기재 금지 사항을 절대 포함하지 마십시오.
6. 완벽한 교열: 문장을 완성한 후 스스로 오자, 탈자, 비문, 띄어쓰기를 3회 검수하여 완벽한 표준어 문장만 출력하십시오.
`

// DefaultTemplates returns the built-in system instructions.
func DefaultTemplates() Templates {
	return Templates{
		record.AreaCourse: "당신은 대한민국 고등학교의 생기부 작성 전문가이자 국어 교열 전문가입니다.\n" +
			"제공된 관찰 기록을 질적으로 분석하여 교과 세부능력 및 특기사항을 작성하십시오.\n" + commonRules,
		record.AreaCareer: "당신은 대한민국 고등학교 담임교사로서 진로활동 특기사항을 작성합니다.\n" +
			"학생의 꿈, 희망 전공, 활동 기록을 연결하여 탐구 과정과 성장이 드러나도록 작성하십시오.\n" + commonRules,
		record.AreaAutonomous: "당신은 대한민국 고등학교 담임교사로서 자율활동 특기사항을 작성합니다.\n" +
			"학급 내 역할과 자치 활동 내용을 바탕으로 공동체 기여가 드러나도록 작성하십시오.\n" + commonRules,
		record.AreaBehavior: "당신은 대한민국 고등학교 담임교사로서 행동특성 및 종합의견을 작성합니다.\n" +
			"관찰 내용을 바탕으로 인성, 태도, 관계 맺기의 구체적 사례가 드러나도록 작성하십시오.\n" + commonRules,
	}
}

// Merge returns t with the non-empty entries of override applied.
func (t Templates) Merge(override map[string]string) Templates {
	out := make(Templates, len(t)+len(override))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range override {
		if strings.TrimSpace(v) != "" {
			out[record.Area(k)] = v
		}
	}
	return out
}

// BuildCoursePrompt 교과 세특 프롬프트.
func BuildCoursePrompt(system string, g record.StudentGroup) Prompt {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("학생 성명: %s\n관찰 기록:\n", g.Name))
	for _, o := range g.Records {
		sb.WriteString(fmt.Sprintf("- %s: %s (키워드: %s, 메모: %s)\n", o.CategoryMajor, o.Fact, o.Keywords, o.Memo))
	}
	sb.WriteString("\n위 지침에 따라 주어 없이 '~하였음.'으로 끝나는 완벽한 문장만 출력하라.")
	return Prompt{System: system, User: sb.String()}
}

// BuildCareerPrompt 진로활동 프롬프트.
func BuildCareerPrompt(system string, in record.HomeroomInput) Prompt {
	user := fmt.Sprintf("이름:%s, 꿈:%s, 전공:%s, 기록:%s", in.Name, in.Dream, in.Major, in.CareerRaw)
	if in.TargetSchool != "" || in.TargetNote != "" {
		user += fmt.Sprintf(", 진학희망(참고용, 기관명 기재 금지):%s %s", in.TargetSchool, in.TargetNote)
	}
	return Prompt{System: system, User: strings.TrimSpace(user)}
}

// BuildAutonomousPrompt 자율활동 프롬프트.
func BuildAutonomousPrompt(system string, in record.HomeroomInput) Prompt {
	return Prompt{
		System: system,
		User:   fmt.Sprintf("이름:%s, 역할:%s, 활동:%s", in.Name, in.Role, in.AutoContent),
	}
}

// BuildBehaviorPrompt 행동특성 및 종합의견 프롬프트.
func BuildBehaviorPrompt(system string, in record.HomeroomInput) Prompt {
	return Prompt{
		System: system,
		User:   fmt.Sprintf("이름:%s, 역할:%s, 관찰:%s", in.Name, in.Role, in.BehaviorRaw),
	}
}
