package ui

import (
	"context"
	"errors"
	"net/url"

	"opengoal/internal/imageutil"
	"opengoal/panel"

	gaba "github.com/BrandonKowalski/gabagool/v2/pkg/gabagool"
	"github.com/BrandonKowalski/gabagool/v2/pkg/gabagool/constants"
)

const qrSize = 256

// QRNavigator opens links by showing them as a QR code, the handheld has no
// browser to hand them to.
type QRNavigator struct{}

func NewQRNavigator() *QRNavigator {
	return &QRNavigator{}
}

func (n *QRNavigator) Navigate(ctx context.Context, link string) error {
	logger := gaba.GetLogger()

	if _, err := url.ParseRequestURI(link); err != nil {
		return err
	}

	qrcode, err := imageutil.CreateTempQRCode(link, qrSize)
	if err != nil {
		logger.Error("Unable to generate QR code", "url", link, "error", err)
		return err
	}

	sections := []gaba.Section{
		gaba.NewImageSection(
			linkName(link),
			qrcode,
			int32(qrSize),
			int32(qrSize),
			constants.TextAlignCenter,
		),
		gaba.NewDescriptionSection("", link),
	}

	options := gaba.DefaultInfoScreenOptions()
	options.Sections = sections
	options.ShowThemeBackground = false
	options.ConfirmButton = constants.VirtualButtonUnassigned

	_, err = gaba.DetailScreen(linkName(link), options, BackFooter())
	if err != nil && !errors.Is(err, gaba.ErrCancelled) {
		logger.Error("QR screen error", "error", err)
		return err
	}

	return nil
}

func linkName(link string) string {
	for _, l := range panel.Links {
		if l.URL == link {
			return l.Name
		}
	}
	if u, err := url.Parse(link); err == nil && u.Host != "" {
		return u.Host
	}
	return link
}
