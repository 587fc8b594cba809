package panel

import (
	"context"
	"fmt"
	"sync"

	"opengoal/host"
	"opengoal/rpc"
	"opengoal/steam"
)

type artworkTask struct {
	method string
	slot   steam.ArtworkSlot
}

var artworkTasks = []artworkTask{
	{rpc.MethodReadSmallImage, steam.SlotCapsule},
	{rpc.MethodReadWideImage, steam.SlotWideCapsule},
	{rpc.MethodReadHeroImage, steam.SlotHero},
	{rpc.MethodReadLogoImage, steam.SlotLogo},
}

// ShortcutResult reports what CreateShortcut did after the shortcut itself
// was created.
type ShortcutResult struct {
	AppID     int64
	Applied   []steam.ArtworkSlot
	Skipped   []steam.ArtworkSlot
	Restarted bool
}

// CreateShortcut creates a library shortcut for id, applies its artwork and
// offers a Steam restart. When the shortcut cannot be created nothing else
// happens.
func (p *Panel) CreateShortcut(ctx context.Context, id string) (*ShortcutResult, error) {
	p.mu.Lock()
	e, ok := p.entries[id]
	if !ok {
		p.mu.Unlock()
		return nil, fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}
	if !e.CanCreateShortcut() {
		p.mu.Unlock()
		return nil, ErrActionDisabled
	}
	e.CreatingShortcut = true
	owner := p.user.ID
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		e.CreatingShortcut = false
		p.mu.Unlock()
	}()

	res := p.deps.Caller.Call(ctx, rpc.MethodCreateShortcut, rpc.OwnerGameParams(uint32(owner), id))
	appID, ok := res.Int64()
	if !res.Succeeded() || !ok {
		failure := failureOf(res, rpc.MethodCreateShortcut)
		p.logFailure(rpc.Result{Failure: failure})

		p.mu.Lock()
		e.LastFailure = failure
		p.mu.Unlock()
		return nil, failure
	}

	p.logger.Info("Created shortcut", "game", id, "appID", appID)

	result := &ShortcutResult{AppID: appID}
	applied := p.applyArtwork(ctx, id, appID)
	for i, task := range artworkTasks {
		if applied[i] {
			result.Applied = append(result.Applied, task.slot)
		} else {
			result.Skipped = append(result.Skipped, task.slot)
		}
	}

	p.mu.Lock()
	e.ShortcutExists = true
	e.LastFailure = nil
	p.mu.Unlock()

	confirmed := p.deps.Prompter.Confirm(ctx, host.Prompt{
		Title:       "Restart Steam?",
		Message:     "Steam needs to be restarted for the changes to take effect.",
		ConfirmText: "Restart Now",
		CancelText:  "Later",
	})
	if confirmed {
		if err := p.deps.Restarter.Restart(ctx); err != nil {
			p.logger.Error("Restart failed", "error", err)
		} else {
			result.Restarted = true
		}
	}

	return result, nil
}

// applyArtwork fetches and applies every artwork slot concurrently and waits
// for all of them. A slot that fails is reported false.
func (p *Panel) applyArtwork(ctx context.Context, id string, appID int64) []bool {
	applied := make([]bool, len(artworkTasks))

	var wg sync.WaitGroup
	for i, task := range artworkTasks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.logger.Error("Artwork task panicked", "game", id, "slot", task.slot, "panic", r)
				}
			}()
			applied[i] = p.applyOne(ctx, id, appID, task)
		}()
	}
	wg.Wait()

	return applied
}

func (p *Panel) applyOne(ctx context.Context, id string, appID int64, task artworkTask) bool {
	res := p.deps.Caller.Call(ctx, task.method, rpc.GameParams(id))
	payload, ok := res.String()
	if !res.Succeeded() || !ok {
		p.logFailure(res)
		p.logger.Debug("Skipping artwork", "game", id, "slot", task.slot)
		return false
	}

	if err := p.deps.Artwork.SetArtwork(ctx, appID, payload, "png", task.slot); err != nil {
		p.logger.Warn("Failed to apply artwork", "game", id, "slot", task.slot, "error", err)
		return false
	}
	return true
}

// OpenLink hands url to the host's navigator.
func (p *Panel) OpenLink(ctx context.Context, url string) error {
	if err := p.deps.Navigator.Navigate(ctx, url); err != nil {
		p.logger.Warn("Navigation failed", "url", url, "error", err)
		return err
	}
	return nil
}
