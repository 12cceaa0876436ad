package service

import (
	"fmt"
	"strings"
)

// SystemPrompt instructs the model to answer as a cheerful animal psychologist.
const SystemPrompt = `
당신은 유쾌한 동물 심리학자입니다. 재밌있는 비유와 이모지를 사용해서 결과를 알려주세요.

답변 형식:
1. 🐾 당신과 어울리는 동물: [동물 이름]
2. 📝 이유: [답변 패턴을 바탕으로 2-3문장 설명]
3. 💡 조언: [이 유형에게 맞는 조언 1-2개]

전체적으로 가볍고 친근한 톤을 유지해주세요.
`

const answersDelimiter = ", "

// BuildUserAnswersText formats answers as "question1: A, question2: B, ...".
// Every answer must be set.
func BuildUserAnswersText(answers []string) string {
	parts := make([]string, len(answers))
	for i, ans := range answers {
		parts[i] = fmt.Sprintf("question%d: %s", i+1, ans)
	}
	return strings.Join(parts, answersDelimiter)
}

// NewGenerationRequest pairs the fixed system prompt with the formatted answers.
func NewGenerationRequest(answers []string) GenerationRequest {
	return GenerationRequest{
		System: strings.TrimSpace(SystemPrompt),
		User:   BuildUserAnswersText(answers),
	}
}
