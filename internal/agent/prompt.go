package agent

import (
	"fmt"
	"strings"
	"time"

	"github.com/Srimaan215/Roku-AI/internal/executor"
	"github.com/Srimaan215/Roku-AI/internal/providers"
	"github.com/Srimaan215/Roku-AI/internal/toolcall"
)

const instructions = `INSTRUCTIONS:
1. When the user asks about their schedule, calendar, events, or classes - USE the get_calendar or check_availability tool.
2. When the user asks about weather - USE the get_weather tool.
3. When the user asks about their personal information, goals, or preferences - USE the get_user_info tool.
4. To call a tool, respond with ONLY a JSON object in this exact format:
   {"name": "tool_name", "parameters": {"param1": "value1"}}
5. After receiving tool results, provide a helpful, conversational answer.
6. If you don't need any tools, just answer directly.

Be concise and friendly. Use the tools when they would help provide accurate information.`

// TimeContext renders the clock line injected into every system prompt.
func TimeContext(now time.Time) string {
	return fmt.Sprintf("Current time: %s on %s (%s)",
		now.Format("03:04 PM"), now.Format("Monday, January 02, 2006"), executor.DayType(now))
}

// SystemPrompt assembles persona, time, tool catalog and instructions.
func SystemPrompt(user string, now time.Time, toolsJSON string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are Roku, a personal AI assistant for %s. You are helpful, warm, and casual.\n\n", user)
	b.WriteString(TimeContext(now))
	b.WriteString("\n\nYou have access to the following tools to help answer questions:\n\n")
	b.WriteString(toolsJSON)
	b.WriteString("\n\n")
	b.WriteString(instructions)
	return b.String()
}

// evidence is one executed call and its outcome.
type evidence struct {
	call   toolcall.Call
	result executor.Result
}

func buildMessages(system, query string, history []evidence) []providers.Message {
	msgs := make([]providers.Message, 0, 2+2*len(history))
	msgs = append(msgs,
		providers.Message{Role: providers.RoleSystem, Content: system},
		providers.Message{Role: providers.RoleUser, Content: query},
	)
	for _, ev := range history {
		msgs = append(msgs,
			providers.Message{Role: providers.RoleAssistant, Content: ev.call.JSON()},
			providers.Message{Role: providers.RoleTool, Content: ev.result.Text()},
		)
	}
	return msgs
}

var leadIns = []string{"Answer:", "Response:", "Here's my answer:"}

// cleanAnswer removes tool-call debris and conversational lead-ins.
func cleanAnswer(text string) string {
	out := strings.TrimSpace(toolcall.StripFragments(text))
	for _, prefix := range leadIns {
		if strings.HasPrefix(out, prefix) {
			out = strings.TrimSpace(out[len(prefix):])
		}
	}
	return out
}
