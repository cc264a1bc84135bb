package telegram

import (
	"strconv"
	"strings"
)

// Callback action constants.
const (
	actionCategory   = "cat"
	actionCategories = "cats"
	actionAnswer     = "ans"
	actionNext       = "next"
	actionRetry      = "retry"
	actionStats      = "stats"
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

// param returns the i-th parameter or "".
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
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

func buildCategoryCallback(categoryID string) string {
	return callbackData{
		Action: actionCategory,
		Params: []string{categoryID},
	}.encode()
}

func buildCategoriesCallback() string {
	return actionCategories
}

// buildAnswerCallback builds callback data for answering a question.
func buildAnswerCallback(questionID string, option int) string {
	return callbackData{
		Action: actionAnswer,
		Params: []string{questionID, strconv.Itoa(option)},
	}.encode()
}

// parseAnswerCallback extracts the question id and option of an answer.
// The option is the last parameter so question ids may contain ':'.
func parseAnswerCallback(cd callbackData) (questionID string, option int, ok bool) {
	if cd.Action != actionAnswer || len(cd.Params) < 2 {
		return "", 0, false
	}

	last := len(cd.Params) - 1
	option, err := strconv.Atoi(cd.Params[last])
	if err != nil || option < 0 {
		return "", 0, false
	}

	questionID = strings.Join(cd.Params[:last], ":")
	if questionID == "" {
		return "", 0, false
	}
	return questionID, option, true
}

func buildNextCallback() string {
	return actionNext
}

func buildRetryCallback() string {
	return actionRetry
}

func buildStatsCallback() string {
	return actionStats
}
