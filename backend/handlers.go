package backend

import (
	"context"
	"fmt"

	"opengoal/rpc"
	"opengoal/steam"
)

// Register exposes the service's operations on registry under the method
// names the panel calls.
func (s *Service) Register(registry *rpc.Registry) {
	registry.Register(rpc.MethodGetUsersHomeDir, func(ctx context.Context, params rpc.Params) (any, error) {
		return s.HomeDir(), nil
	})

	registry.Register(rpc.MethodIsGameInstalled, s.gameQuery(func(ctx context.Context, game string) (bool, error) {
		return s.IsInstalled(game)
	}))

	registry.Register(rpc.MethodDoesISOExist, s.gameQuery(func(ctx context.Context, game string) (bool, error) {
		return s.ISOExists(game)
	}))

	registry.Register(rpc.MethodIsGameOutOfDate, s.gameQuery(s.IsOutOfDate))

	registry.Register(rpc.MethodInstallGame, s.gameAction(s.Install))
	registry.Register(rpc.MethodUpdateGame, s.gameAction(s.Update))
	registry.Register(rpc.MethodRemoveGame, s.gameAction(func(ctx context.Context, game string) error {
		return s.Remove(game)
	}))

	registry.Register(rpc.MethodShortcutAlreadyCreated, func(ctx context.Context, params rpc.Params) (any, error) {
		owner, game, err := ownerGame(params)
		if err != nil {
			return nil, err
		}
		return s.ShortcutExists(owner, game)
	})

	registry.Register(rpc.MethodCreateShortcut, func(ctx context.Context, params rpc.Params) (any, error) {
		owner, game, err := ownerGame(params)
		if err != nil {
			return nil, err
		}
		appID, err := s.CreateShortcut(owner, game)
		if err != nil {
			return nil, err
		}
		return int64(appID), nil
	})

	for method, kind := range map[string]ImageKind{
		rpc.MethodReadSmallImage: ImageSmall,
		rpc.MethodReadWideImage:  ImageWide,
		rpc.MethodReadHeroImage:  ImageHero,
		rpc.MethodReadLogoImage:  ImageLogo,
	} {
		registry.Register(method, func(ctx context.Context, params rpc.Params) (any, error) {
			game, err := params.String(rpc.ParamGame)
			if err != nil {
				return nil, err
			}
			return s.ReadImage(game, kind)
		})
	}
}

func (s *Service) gameQuery(fn func(ctx context.Context, game string) (bool, error)) rpc.Handler {
	return func(ctx context.Context, params rpc.Params) (any, error) {
		game, err := params.String(rpc.ParamGame)
		if err != nil {
			return nil, err
		}
		return fn(ctx, game)
	}
}

func (s *Service) gameAction(fn func(ctx context.Context, game string) error) rpc.Handler {
	return func(ctx context.Context, params rpc.Params) (any, error) {
		game, err := params.String(rpc.ParamGame)
		if err != nil {
			return nil, err
		}
		if err := fn(ctx, game); err != nil {
			return nil, err
		}
		return true, nil
	}
}

func ownerGame(params rpc.Params) (steam.AccountID, string, error) {
	owner, err := params.Uint32(rpc.ParamOwnerID)
	if err != nil {
		return 0, "", err
	}
	game, err := params.String(rpc.ParamGame)
	if err != nil {
		return 0, "", err
	}
	if owner == 0 {
		return 0, "", fmt.Errorf("%w: owner_id must be non-zero", rpc.ErrInvalidParams)
	}
	return steam.AccountID(owner), game, nil
}
