package completion

import (
	"fmt"

	"codeberg.org/promptdesk/server/internal/sessions"
)

const debugTemplate = "Debug this code and explain the issues: %s"

const suggestTemplate = `I have a coding idea and I need suggestions for implementation. Here's my idea: %s

Please provide:
1. Technical approach suggestions
2. Potential challenges and solutions
3. Best practices to consider
4. Technology stack recommendations`

// BuildPrompt wraps the user's input in the instruction template for the
// given session kind. Plain generation passes the input through unchanged.
// The templated form is sent to the model only; the stored session keeps
// the raw input.
func BuildPrompt(kind sessions.Kind, input string) string {
	switch kind {
	case sessions.KindDebug:
		return fmt.Sprintf(debugTemplate, input)
	case sessions.KindSuggest:
		return fmt.Sprintf(suggestTemplate, input)
	default:
		return input
	}
}
