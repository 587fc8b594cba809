package ui

import (
	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/i18n"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
)

func footerItem(button, msgID, fallback string) gaba.FooterHelpItem {
	return gaba.FooterHelpItem{
		ButtonName: button,
		HelpText:   i18n.Localize(&goi18n.Message{ID: msgID, Other: fallback}, nil),
	}
}

func FooterSelect() gaba.FooterHelpItem { return footerItem("A", "button_select", "Select") }
func FooterBack() gaba.FooterHelpItem   { return footerItem("B", "button_back", "Back") }
func FooterCancel() gaba.FooterHelpItem { return footerItem("B", "button_cancel", "Cancel") }
func FooterQuit() gaba.FooterHelpItem   { return footerItem("B", "button_quit", "Quit") }

func FooterClearCache() gaba.FooterHelpItem {
	return footerItem("X", "button_clear_cache", "Clear Cache")
}

// customFooter is used when the labels come from the caller, as for prompts.
func customFooter(cancel, confirm string) []gaba.FooterHelpItem {
	return []gaba.FooterHelpItem{
		{ButtonName: "B", HelpText: cancel},
		{ButtonName: "A", HelpText: confirm},
	}
}

func BackFooter() []gaba.FooterHelpItem {
	return []gaba.FooterHelpItem{FooterBack()}
}

func PanelFooter() []gaba.FooterHelpItem {
	return []gaba.FooterHelpItem{FooterQuit(), FooterSelect()}
}
