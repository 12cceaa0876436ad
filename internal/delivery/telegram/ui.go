package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
)

const selectedMark = "✅ "

// buildQuestionKeyboard builds one button per option, marking the selected one.
func buildQuestionKeyboard(question int, q entities.Question, selected int, hasSelection bool) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(q.Options))
	for i, option := range q.Options {
		label := option
		if hasSelection && i == selected {
			label = selectedMark + option
		}
		button := tgbotapi.NewInlineKeyboardButtonData(label, buildAnswerCallback(question, i))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(button))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// buildControlsKeyboard builds the submit/reset row shown under the questionnaire.
func buildControlsKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnSubmit, buildSubmitCallback()),
			tgbotapi.NewInlineKeyboardButtonData(btnReset, buildResetCallback()),
		),
	)
}

// buildResultKeyboard builds keyboard for the committed result.
func buildResultKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnShare, buildShareCallback()),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnReset, buildResetCallback()),
		),
	)
}
