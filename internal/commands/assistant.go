package roku

import (
	"context"
	"errors"

	"github.com/Srimaan215/Roku-AI/internal/assistant"
)

// assistantOptions are appended to every assistant opened by a command.
// Tests use it to swap the model backend.
var assistantOptions []assistant.Option

// openAssistant builds an assistant from the loaded configuration.
func openAssistant(ctx context.Context, extra ...assistant.Option) (*assistant.Assistant, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, errors.New("configuration is not loaded")
	}
	opts := append(append([]assistant.Option(nil), assistantOptions...), extra...)
	return assistant.New(ctx, *cfg, opts...)
}
