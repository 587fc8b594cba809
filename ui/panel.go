package ui

import (
	"errors"

	"opengoal/panel"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/i18n"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
)

type PanelInput struct {
	Panel                 *panel.Panel
	LastSelectedIndex     int
	LastVisibleStartIndex int
}

type PanelOutput struct {
	Action                PanelAction
	GameID                string
	URL                   string
	LastSelectedIndex     int
	LastVisibleStartIndex int
}

type PanelScreen struct{}

func NewPanelScreen() *PanelScreen {
	return &PanelScreen{}
}

// panelItem is stored as the menu item metadata.
type panelItem struct {
	action  PanelAction
	gameID  string
	url     string
	enabled bool
	helper  string
}

func (s *PanelScreen) Draw(input PanelInput) (PanelOutput, error) {
	output := PanelOutput{
		Action:                PanelActionQuit,
		LastSelectedIndex:     input.LastSelectedIndex,
		LastVisibleStartIndex: input.LastVisibleStartIndex,
	}

	items := s.buildMenuItems(input.Panel)

	result, err := gaba.OptionsList(
		"OpenGOAL",
		gaba.OptionListSettings{
			FooterHelpItems:      PanelFooter(),
			InitialSelectedIndex: input.LastSelectedIndex,
			VisibleStartIndex:    input.LastVisibleStartIndex,
			StatusBar:            StatusBar(),
			UseSmallTitle:        true,
		},
		items,
	)

	if result != nil {
		output.LastSelectedIndex = result.Selected
		output.LastVisibleStartIndex = result.VisibleStartIndex
	}

	if err != nil {
		if errors.Is(err, gaba.ErrCancelled) {
			return output, nil
		}
		gaba.GetLogger().Error("Panel screen error", "error", err)
		return output, err
	}

	if result.Action != gaba.ListActionSelected || result.Selected < 0 || result.Selected >= len(items) {
		output.Action = PanelActionNone
		return output, nil
	}

	item, ok := items[result.Selected].Item.Metadata.(panelItem)
	if !ok {
		output.Action = PanelActionNone
		return output, nil
	}

	if !item.enabled {
		showMessage(item.helper)
		output.Action = PanelActionNone
		return output, nil
	}

	output.Action = item.action
	output.GameID = item.gameID
	output.URL = item.url
	return output, nil
}

func (s *PanelScreen) buildMenuItems(p *panel.Panel) []gaba.ItemWithOptions {
	entries := p.Entries()
	items := make([]gaba.ItemWithOptions, 0, len(entries)*3+len(panel.Links)+1)

	for _, e := range entries {
		label := e.ButtonLabel()
		if e.Installing {
			label = i18n.Localize(&goi18n.Message{ID: "panel_installing", Other: "Installing {{.Title}}..."}, map[string]interface{}{"Title": e.Title})
		}
		items = append(items, clickable(label, installStatus(e), panelItem{
			action:  PanelActionInstall,
			gameID:  e.ID,
			enabled: e.CanInstall(),
			helper:  p.HelperText(e.ID),
		}))

		if e.Installed {
			items = append(items, clickable(e.RemoveLabel(), "", panelItem{
				action:  PanelActionRemove,
				gameID:  e.ID,
				enabled: e.CanRemove(),
				helper:  p.HelperText(e.ID),
			}))
		}
	}

	for _, e := range entries {
		status := ""
		if e.ShortcutExists {
			status = i18n.Localize(&goi18n.Message{ID: "panel_shortcut_exists", Other: "Exists"}, nil)
		}
		items = append(items, clickable(e.ShortcutLabel(), status, panelItem{
			action:  PanelActionShortcut,
			gameID:  e.ID,
			enabled: e.CanCreateShortcut(),
			helper:  e.ShortcutText(),
		}))
	}

	for _, link := range panel.Links {
		items = append(items, clickable(link.Name, "", panelItem{
			action:  PanelActionLink,
			url:     link.URL,
			enabled: true,
		}))
	}

	items = append(items, clickable(
		i18n.Localize(&goi18n.Message{ID: "panel_about", Other: "About"}, nil), "",
		panelItem{action: PanelActionInfo, enabled: true},
	))

	return items
}

func clickable(text, status string, item panelItem) gaba.ItemWithOptions {
	return gaba.ItemWithOptions{
		Item: gaba.MenuItem{Text: text, Metadata: item},
		Options: []gaba.Option{
			{DisplayName: status, Type: gaba.OptionTypeClickable},
		},
	}
}

func installStatus(e panel.GameEntry) string {
	switch {
	case e.Installing:
		return ""
	case e.Installed && e.OutOfDate:
		return i18n.Localize(&goi18n.Message{ID: "panel_status_out_of_date", Other: "Out of Date"}, nil)
	case e.Installed:
		return i18n.Localize(&goi18n.Message{ID: "panel_status_installed", Other: "Installed"}, nil)
	case !e.ISOAvailable:
		return i18n.Localize(&goi18n.Message{ID: "panel_status_no_iso", Other: "No ISO"}, nil)
	default:
		return i18n.Localize(&goi18n.Message{ID: "panel_status_ready", Other: "Ready"}, nil)
	}
}

// showMessage shows text until dismissed.
func showMessage(text string) {
	if text == "" {
		return
	}
	gaba.ConfirmationMessage(text, BackFooter(), gaba.MessageOptions{})
}
