// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf8"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Notices.
const (
	msgIncomplete       = "모든 질문에 답해주세요!"
	msgNotConfigured    = "서버 환경 변수에 OPENAI_API_KEY(또는 GEMINI_API_KEY)를 설정해주세요."
	msgGenerationFailed = "AI 분석 중 오류가 발생했습니다: %s"
	msgAnalyzing        = "🧠 유쾌한 동물 심리학자가 분석 중이에요... 🐾"
	msgResultTitle      = "🌿 당신의 심리테스트 결과"
	msgShared           = "클립보드에 복사했어요! 📋✨"
	msgBusy             = "분석 중이에요. 잠시만 기다려주세요! 🐾"
	msgNoResult         = "아직 결과가 없어요. 먼저 결과 보기를 눌러주세요."
	msgRestart          = "처음부터 다시 시작해요! 🌱"
	msgControls         = "5개 질문에 모두 답했다면 결과 보기를 눌러주세요!"
	msgInvalidAnswer    = "잘못된 선택이에요. /start 로 다시 시작해주세요."
	msgInternalError    = "문제가 발생했어요. 잠시 후 다시 시도해주세요."
	msgUnknownCommand   = "알 수 없는 명령어예요.\n\n/start - 테스트 시작\n/reset - 다시 테스트하기\n/help - 도움말"
	msgHelp             = "동숲 대사를 골라 보면 AI가 당신의 인간관계 스타일을 어울리는 동물로 알려줘요 🐾\n\n/start - 테스트 시작\n/reset - 다시 테스트하기\n/help - 도움말"
)

// Buttons.
const (
	btnSubmit = "결과 보기"
	btnReset  = "다시 테스트하기"
	btnShare  = "결과 공유하기"
)

// maxMessageRunes keeps edits under the Telegram 4096 character limit.
const maxMessageRunes = 4000

// md escapes plain text for MarkdownV2.
func md(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

func bold(s string) string {
	return "*" + md(s) + "*"
}

// newMessage creates a message with MarkdownV2 parse mode.
func newMessage(chatID int64, text string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2
	return msg
}

// newPlainMessage creates a plain message without MarkdownV2 parse mode.
// Generated text is always sent plain: partial markdown would not parse.
func newPlainMessage(chatID int64, text string) tgbotapi.MessageConfig {
	return tgbotapi.NewMessage(chatID, text)
}

// welcomeMarkdownV2 builds the intro shown before the questionnaire.
func welcomeMarkdownV2() string {
	var sb strings.Builder

	sb.WriteString(bold("나는 어떤 모동숲 주민일까?🌿"))
	sb.WriteString("\n")
	sb.WriteString(md("동숲 대사선택으로 보는 인간관계 스타일"))
	sb.WriteString("\n\n")
	sb.WriteString(md("가볍게 대사를 골라보면, AI가 당신의 "))
	sb.WriteString(bold("인간관계 스타일"))
	sb.WriteString(md("을 분석해 "))
	sb.WriteString(bold("어울리는 동물"))
	sb.WriteString(md("로 알려줘요 🐾✨"))
	sb.WriteString("\n\n")
	sb.WriteString(md("아래 5개 질문에 답하고 "))
	sb.WriteString(bold(btnSubmit))
	sb.WriteString(md("를 눌러주세요!"))

	return sb.String()
}

// formatQuestion formats a question header (MarkdownV2 safe).
func formatQuestion(num int, prompt string) string {
	return fmt.Sprintf("%s\n%s", bold(fmt.Sprintf("Q%d", num)), md(prompt))
}

// formatResult formats the committed result for display.
func formatResult(text string) string {
	return truncate(msgResultTitle + "\n\n" + text)
}

// formatCopyBlock wraps text in a <pre> block, which Telegram copies on tap.
func formatCopyBlock(text string) string {
	return "<pre>" + html.EscapeString(truncate(text)) + "</pre>"
}

// formatPartial formats text that is still being generated.
func formatPartial(text string) string {
	return truncate(msgAnalyzing + "\n\n" + text)
}

func formatGenerationFailed(err error) string {
	return fmt.Sprintf(msgGenerationFailed, err.Error())
}

// truncate cuts text to maxMessageRunes runes.
func truncate(text string) string {
	if utf8.RuneCountInString(text) <= maxMessageRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxMessageRunes-1]) + "…"
}
