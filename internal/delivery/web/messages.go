package web

const (
	msgIncomplete       = "모든 질문에 답해주세요!"
	msgNotConfigured    = "서버 환경 변수에 OPENAI_API_KEY(또는 GEMINI_API_KEY)를 설정해주세요."
	msgGenerationFailed = "AI 분석 중 오류가 발생했습니다: %s"
	msgBusy             = "분석 중이에요. 잠시만 기다려주세요! 🐾"
	msgNoResult         = "아직 결과가 없어요. 먼저 결과 보기를 눌러주세요."
	msgInvalidAnswer    = "잘못된 선택이에요."
	msgInternalError    = "문제가 발생했어요. 잠시 후 다시 시도해주세요."
)
