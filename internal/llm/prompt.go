// Package llm rewrites rule-based draft replies into natural text through a
// language model. Callers keep the draft whenever a rewrite fails.
package llm

import (
	"strings"

	"github.com/Santiagodiaz04/chatbot-api/internal/model"
	"github.com/Santiagodiaz04/chatbot-api/internal/utils"
)

// DefaultSystemPrompt is the persona used when no system_prompt setting exists.
const DefaultSystemPrompt = "You are the expert assistant of a real-estate agency. " +
	"Always use the database context we give you: project name, property title, location, price " +
	"and features (rooms, sale or rent). Answer what the user asks about location, name, price or features. " +
	"NEVER invent data; use ONLY the information we pass you. " +
	"NEVER say there is nothing without offering an alternative or inviting them to book a visit. " +
	"Always steer towards seeing the property or booking a visit. " +
	"Be friendly, warm and professional, and answer in the user's language. " +
	"If the draft already offers alternatives, reinforce their value and the invitation to visit."

const (
	maxPromptUserRunes     = 600
	maxPromptLastUserRunes = 300
	maxPromptLastBotRunes  = 400
	maxPromptDraftRunes    = 1800
)

// BuildPrompt assembles the system instruction and the user turn sent to the
// model.
func BuildPrompt(req model.RewriteRequest) (system, user string) {
	system = strings.TrimSpace(req.SystemPrompt)
	if system == "" {
		system = DefaultSystemPrompt
	}

	var b strings.Builder
	lastUser := strings.TrimSpace(req.LastUserMessage)
	lastBot := strings.TrimSpace(req.LastBotMessage)
	switch {
	case lastUser != "" && lastBot != "":
		b.WriteString("Previous exchange:\nUser: ")
		b.WriteString(utils.Truncate(lastUser, maxPromptLastUserRunes))
		b.WriteString("\nAssistant: ")
		b.WriteString(utils.Truncate(lastBot, maxPromptLastBotRunes))
		b.WriteString("\n\n")
	case lastUser != "":
		b.WriteString("Context: ")
		b.WriteString(utils.Truncate(lastUser, maxPromptLastUserRunes))
		b.WriteString("\n\n")
	}

	if summary := strings.TrimSpace(req.DataSummary); summary != "" {
		b.WriteString("Current database data (use ONLY this):\n")
		b.WriteString(summary)
		b.WriteString("\n\n")
	}

	b.WriteString("User message: ")
	b.WriteString(utils.Truncate(strings.TrimSpace(req.UserText), maxPromptUserRunes))
	b.WriteString("\n\n")

	if req.Intent != "" {
		b.WriteString("Detected intent: ")
		b.WriteString(string(req.Intent))
		b.WriteString("\n")
	}
	b.WriteString("Draft reply:\n")
	b.WriteString(utils.Truncate(strings.TrimSpace(req.Draft), maxPromptDraftRunes))
	b.WriteString("\n\n")

	b.WriteString("Rewrite the draft as one short, natural reply. Keep every name, price and fact from the draft, " +
		"add nothing that is not in the data above and invite the user to book a visit when it fits. " +
		"Write only the final reply to the user, without explanations or quotes.")

	return system, b.String()
}

// finish cleans raw model output and enforces the reply limit.
func finish(raw string, maxRunes int) (string, error) {
	text := utils.CleanModelText(raw)
	if text == "" {
		return "", ErrEmptyOutput
	}
	if maxRunes > 0 && len([]rune(text)) > maxRunes {
		return "", ErrOutputTooLong
	}
	return text, nil
}
