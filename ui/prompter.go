package ui

import (
	"context"
	"errors"
	"fmt"

	"opengoal/host"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	buttons "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/constants"
)

// Prompter shows host prompts as confirmation messages. A cancelled dialog
// and a dialog that fails to draw both count as not confirmed.
type Prompter struct{}

func NewPrompter() *Prompter {
	return &Prompter{}
}

func (p *Prompter) Confirm(ctx context.Context, prompt host.Prompt) bool {
	if ctx.Err() != nil {
		return false
	}

	message := prompt.Title
	if prompt.Message != "" {
		message = fmt.Sprintf("%s\n%s", prompt.Title, prompt.Message)
	}

	_, err := gaba.ConfirmationMessage(
		message,
		customFooter(prompt.CancelText, prompt.ConfirmText),
		gaba.MessageOptions{
			ConfirmButton: buttons.VirtualButtonA,
		},
	)

	if err != nil {
		if !errors.Is(err, gaba.ErrCancelled) {
			gaba.GetLogger().Error("Prompt failed", "title", prompt.Title, "error", err)
		}
		return false
	}

	return true
}
