// Package panel holds the state of the OpenGOAL game management panel and
// drives the backend calls behind each of its buttons.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"opengoal/host"
	"opengoal/internal"
	"opengoal/rpc"
)

var (
	ErrActionDisabled = errors.New("action is disabled")
	ErrUnknownGame    = errors.New("unknown game")
	ErrCancelled      = errors.New("cancelled by user")
)

// Deps are the capabilities the panel is built on. Every field is required
// except Logger.
type Deps struct {
	Caller    rpc.Caller
	Prompter  host.Prompter
	Artwork   host.ArtworkSetter
	Restarter host.Restarter
	Navigator host.Navigator
	Users     host.UserResolver
	Logger    *slog.Logger
}

type Panel struct {
	deps   Deps
	logger *slog.Logger

	mu      sync.Mutex
	order   []string
	entries map[string]*GameEntry
	home    string
	user    UserContext
	state   LoadState

	loadOnce sync.Once
}

func New(deps Deps, games []internal.Game) *Panel {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	p := &Panel{
		deps:    deps,
		logger:  logger,
		entries: make(map[string]*GameEntry, len(games)),
		home:    DefaultHomeDir,
		state:   Loading,
	}
	for _, g := range games {
		if _, dup := p.entries[g.ID]; dup {
			continue
		}
		p.order = append(p.order, g.ID)
		p.entries[g.ID] = &GameEntry{ID: g.ID, Title: g.Title}
	}
	return p
}

func (p *Panel) State() LoadState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Panel) Home() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.home
}

func (p *Panel) User() UserContext {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.user
}

// Entries returns a copy of every entry in display order.
func (p *Panel) Entries() []GameEntry {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]GameEntry, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.entries[id])
	}
	return out
}

func (p *Panel) Entry(id string) (GameEntry, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[id]
	if !ok {
		return GameEntry{}, false
	}
	return *e, true
}

// HelperText is GameEntry.HelperText with the panel's home directory.
func (p *Panel) HelperText(id string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	e, ok := p.entries[id]
	if !ok {
		return ""
	}
	return e.HelperText(p.home)
}

// Load runs the initial status queries and moves the panel to Ready. Only
// the first call does any work.
func (p *Panel) Load(ctx context.Context) {
	p.loadOnce.Do(func() {
		p.load(ctx)
	})
}

func (p *Panel) load(ctx context.Context) {
	user := UserContext{}
	if p.deps.Users != nil {
		id, err := p.deps.Users.CurrentUser(ctx)
		if err != nil {
			p.logger.Warn("Could not resolve current user", "error", err)
		} else {
			user = UserContext{ID: id, Known: true}
		}
	}

	home := DefaultHomeDir
	if res := p.deps.Caller.Call(ctx, rpc.MethodGetUsersHomeDir, nil); res.Succeeded() {
		if s, ok := res.String(); ok {
			home = s
		}
	} else {
		p.logFailure(res)
	}

	p.mu.Lock()
	p.user = user
	p.home = home
	ids := append([]string(nil), p.order...)
	p.mu.Unlock()

	for _, id := range ids {
		installed := p.query(ctx, rpc.MethodIsGameInstalled, rpc.GameParams(id))
		isoAvailable := p.query(ctx, rpc.MethodDoesISOExist, rpc.GameParams(id))
		outOfDate := p.query(ctx, rpc.MethodIsGameOutOfDate, rpc.GameParams(id))

		shortcutExists := false
		if user.Known {
			shortcutExists = p.query(ctx, rpc.MethodShortcutAlreadyCreated, rpc.OwnerGameParams(uint32(user.ID), id))
		}

		p.mu.Lock()
		e := p.entries[id]
		e.Installed = installed
		e.ISOAvailable = isoAvailable
		e.OutOfDate = outOfDate
		e.ShortcutExists = shortcutExists
		p.mu.Unlock()

		p.logger.Debug("Loaded game status", "game", id,
			"installed", installed, "isoAvailable", isoAvailable,
			"outOfDate", outOfDate, "shortcutExists", shortcutExists)
	}

	p.mu.Lock()
	p.state = Ready
	p.mu.Unlock()
}

// query treats anything but a truthy value as false.
func (p *Panel) query(ctx context.Context, method string, params rpc.Params) bool {
	res := p.deps.Caller.Call(ctx, method, params)
	if !res.Succeeded() {
		p.logFailure(res)
	}
	return res.Truthy()
}

func (p *Panel) logFailure(res rpc.Result) {
	if res.Failure == nil {
		return
	}
	p.logger.Warn("Backend call failed",
		"method", res.Failure.Method,
		"reason", res.Failure.Reason,
		"message", res.Failure.Message)
}

// failureOf returns the failure behind a result that did not count as
// success, turning falsy values into a declined failure.
func failureOf(res rpc.Result, method string) *rpc.Failure {
	if res.Failure != nil {
		return res.Failure
	}
	return &rpc.Failure{Method: method, Reason: rpc.ReasonDeclined}
}

// InstallOrUpdate runs the install or update operation for id, depending on
// whether the installed copy is out of date. State is only changed on a
// truthy result; the installing flag is always cleared.
func (p *Panel) InstallOrUpdate(ctx context.Context, id string) error {
	p.mu.Lock()
	e, ok := p.entries[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}
	if !e.CanInstall() {
		p.mu.Unlock()
		return ErrActionDisabled
	}
	method := e.InstallMethod()
	e.Installing = true
	p.mu.Unlock()

	p.logger.Info("Starting install", "game", id, "method", method)

	defer func() {
		p.mu.Lock()
		e.Installing = false
		p.mu.Unlock()
	}()

	res := p.deps.Caller.Call(ctx, method, rpc.GameParams(id))

	p.mu.Lock()
	defer p.mu.Unlock()

	if res.Truthy() {
		e.Installed = true
		e.OutOfDate = false
		e.LastFailure = nil
		return nil
	}

	e.LastFailure = failureOf(res, method)
	p.logFailure(rpc.Result{Failure: e.LastFailure})
	return e.LastFailure
}

// Remove asks for confirmation and deletes the installed game.
func (p *Panel) Remove(ctx context.Context, id string) error {
	p.mu.Lock()
	e, ok := p.entries[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownGame, id)
	}
	if !e.CanRemove() {
		p.mu.Unlock()
		return ErrActionDisabled
	}
	title := e.Title
	p.mu.Unlock()

	promptTitle, message := removePrompt(title)
	confirmed := p.deps.Prompter.Confirm(ctx, host.Prompt{
		Title:       promptTitle,
		Message:     message,
		ConfirmText: "Delete",
		CancelText:  "Cancel",
	})
	if !confirmed {
		return ErrCancelled
	}

	res := p.deps.Caller.Call(ctx, rpc.MethodRemoveGame, rpc.GameParams(id))

	p.mu.Lock()
	defer p.mu.Unlock()

	if res.Truthy() {
		e.Installed = false
		e.LastFailure = nil
		return nil
	}

	e.LastFailure = failureOf(res, rpc.MethodRemoveGame)
	p.logFailure(rpc.Result{Failure: e.LastFailure})
	return e.LastFailure
}
