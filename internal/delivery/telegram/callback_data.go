package telegram

import (
	"strconv"
	"strings"

	"github.com/aliskhannn/villager-test-bot/internal/domain/entities"
)

// Callback action constants.
const (
	actionAnswer = "answer"
	actionSubmit = "submit"
	actionReset  = "reset"
	actionShare  = "share"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")
	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// answerParams extracts question and option indices of an answer callback.
// Indices outside the questionnaire are rejected.
func (cd callbackData) answerParams() (question, option int, ok bool) {
	if cd.Action != actionAnswer || len(cd.Params) != 2 {
		return 0, 0, false
	}

	q, errQ := strconv.Atoi(cd.Params[0])
	o, errO := strconv.Atoi(cd.Params[1])
	if errQ != nil || errO != nil {
		return 0, 0, false
	}
	if q < 0 || q >= entities.NumQuestions || o < 0 || o >= entities.NumOptions {
		return 0, 0, false
	}
	return q, o, true
}

// buildAnswerCallback builds callback data for selecting option of question.
// Both are zero-based indices.
func buildAnswerCallback(question, option int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{strconv.Itoa(question), strconv.Itoa(option)},
	}.encode()
}

func buildSubmitCallback() string {
	return actionSubmit
}

func buildResetCallback() string {
	return actionReset
}

func buildShareCallback() string {
	return actionShare
}
