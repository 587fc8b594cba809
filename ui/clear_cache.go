package ui

import (
	"errors"
	"time"

	"opengoal/cache"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	buttons "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/constants"
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/i18n"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
)

type ClearCacheInput struct {
	Cache *cache.Manager
}

type ClearCacheOutput struct {
	Action ClearCacheAction
}

type ClearCacheScreen struct{}

func NewClearCacheScreen() *ClearCacheScreen {
	return &ClearCacheScreen{}
}

func (s *ClearCacheScreen) Draw(input ClearCacheInput) (ClearCacheOutput, error) {
	output := ClearCacheOutput{Action: ClearCacheActionCancel}

	if input.Cache == nil {
		return output, nil
	}

	_, err := gaba.ConfirmationMessage(
		i18n.Localize(&goi18n.Message{ID: "clear_cache_confirm", Other: "Clear the cached release information?"}, nil),
		[]gaba.FooterHelpItem{
			FooterCancel(),
			footerItem("X", "button_confirm", "Confirm"),
		},
		gaba.MessageOptions{
			ConfirmButton: buttons.VirtualButtonX,
		},
	)

	if err != nil {
		if errors.Is(err, gaba.ErrCancelled) {
			return output, nil
		}
		return output, err
	}

	if err := input.Cache.Clear(); err != nil {
		gaba.GetLogger().Error("Failed to clear cache", "error", err)
		return output, err
	}

	gaba.ProcessMessage(
		i18n.Localize(&goi18n.Message{ID: "cache_cleared", Other: "Cache cleared!"}, nil),
		gaba.ProcessMessageOptions{},
		func() (interface{}, error) {
			time.Sleep(time.Second * 1)
			return nil, nil
		},
	)

	output.Action = ClearCacheActionCleared
	return output, nil
}
