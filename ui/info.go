package ui

import (
	"errors"
	"fmt"

	"opengoal/cache"
	"opengoal/internal/imageutil"
	"opengoal/panel"
	"opengoal/version"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	buttons "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/constants"
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/i18n"
	"github.com/dustin/go-humanize"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
)

type InfoInput struct {
	Panel      *panel.Panel
	Backend    string
	FreeSpace  uint64
	CacheStats *cache.Snapshot
	LatestTag  string
}

type InfoOutput struct {
	Action InfoAction
}

type InfoScreen struct{}

func NewInfoScreen() *InfoScreen {
	return &InfoScreen{}
}

func (s *InfoScreen) Draw(input InfoInput) (InfoOutput, error) {
	output := InfoOutput{Action: InfoActionBack}

	options := gaba.DefaultInfoScreenOptions()
	options.Sections = s.buildSections(input)
	options.ShowThemeBackground = false
	options.ShowScrollbar = true

	footer := BackFooter()
	if input.CacheStats != nil {
		options.ActionButton = buttons.VirtualButtonX
		options.EnableAction = true
		footer = append(footer, FooterClearCache())
	}

	result, err := gaba.DetailScreen("", options, footer)
	if err != nil {
		if errors.Is(err, gaba.ErrCancelled) {
			return output, nil
		}
		gaba.GetLogger().Error("Info screen error", "error", err)
		return output, err
	}

	if result.Action == gaba.DetailActionTriggered {
		output.Action = InfoActionClearCache
	}

	return output, nil
}

func (s *InfoScreen) buildSections(input InfoInput) []gaba.Section {
	sections := make([]gaba.Section, 0)

	versionInfo := version.Get()
	versionMetadata := []gaba.MetadataItem{
		{Label: i18n.Localize(&goi18n.Message{ID: "info_version", Other: "Version"}, nil), Value: versionInfo.Version},
		{Label: i18n.Localize(&goi18n.Message{ID: "info_commit", Other: "Commit"}, nil), Value: versionInfo.GitCommit},
		{Label: i18n.Localize(&goi18n.Message{ID: "info_build_date", Other: "Build Date"}, nil), Value: versionInfo.BuildDate},
	}
	sections = append(sections, gaba.NewInfoSection("OpenGOAL", versionMetadata))

	user := i18n.Localize(&goi18n.Message{ID: "info_user_unknown", Other: "Unknown"}, nil)
	if u := input.Panel.User(); u.Known {
		user = fmt.Sprintf("%d", u.Widened())
	}

	metadata := []gaba.MetadataItem{
		{Label: i18n.Localize(&goi18n.Message{ID: "info_backend", Other: "Backend"}, nil), Value: input.Backend},
		{Label: i18n.Localize(&goi18n.Message{ID: "info_home", Other: "Home"}, nil), Value: input.Panel.Home()},
		{Label: i18n.Localize(&goi18n.Message{ID: "info_steam_user", Other: "Steam User"}, nil), Value: user},
	}
	if input.FreeSpace > 0 {
		metadata = append(metadata, gaba.MetadataItem{
			Label: i18n.Localize(&goi18n.Message{ID: "info_free_space", Other: "Free Space"}, nil),
			Value: humanize.IBytes(input.FreeSpace),
		})
	}
	if input.LatestTag != "" {
		metadata = append(metadata, gaba.MetadataItem{
			Label: i18n.Localize(&goi18n.Message{ID: "info_latest_release", Other: "Latest Release"}, nil),
			Value: input.LatestTag,
		})
	}
	sections = append(sections, gaba.NewInfoSection(i18n.Localize(&goi18n.Message{ID: "info_system", Other: "System"}, nil), metadata))

	if input.CacheStats != nil {
		sections = append(sections, gaba.NewInfoSection(
			i18n.Localize(&goi18n.Message{ID: "info_release_cache", Other: "Release Cache"}, nil),
			[]gaba.MetadataItem{
				{Label: i18n.Localize(&goi18n.Message{ID: "info_cache_hits", Other: "Hits"}, nil), Value: humanize.Comma(input.CacheStats.Hits)},
				{Label: i18n.Localize(&goi18n.Message{ID: "info_cache_misses", Other: "Misses"}, nil), Value: humanize.Comma(input.CacheStats.Misses)},
			},
		))
	}

	qrcode, err := imageutil.CreateTempQRCode("https://github.com/open-goal/", qrSize)
	if err == nil {
		sections = append(sections, gaba.NewImageSection(
			i18n.Localize(&goi18n.Message{ID: "info_repository", Other: "GitHub"}, nil),
			qrcode,
			int32(qrSize),
			int32(qrSize),
			buttons.TextAlignCenter,
		))
	} else {
		gaba.GetLogger().Error("Unable to generate QR code for repository", "error", err)
	}

	return sections
}
