package ops

import (
	"context"

	"github.com/chemstack/chemstack/pkg/catalog"
)

// SetResult summarizes one install run over a set of requested tokens.
type SetResult struct {
	Requested []string
	Installed []string
	Failed    []string
	Unknown   []string
}

// SetInstall installs each requested package in command line order.
// Unknown tokens get a warning; a failed package does not stop the
// ones after it.
type SetInstall struct {
	common

	Env *InstallEnv
}

func (s *SetInstall) Run(ctx context.Context, tokens []string) (*SetResult, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}

	ui := GetUI(ctx)

	res := &SetResult{
		Requested: tokens,
	}

	for _, tok := range tokens {
		pkg, ok := catalog.Lookup(tok)
		if !ok {
			ui.Unknown(tok)
			res.Unknown = append(res.Unknown, tok)
			continue
		}

		pi := &PackageInstall{Pkg: pkg}
		pi.SetLogger(s.L())

		err := pi.Install(ctx, s.Env)
		if err != nil {
			s.L().Error("package install failed", "package", pkg.Name, "error", err)
			ui.Failed(pkg.Name, err)
			res.Failed = append(res.Failed, pkg.Name)
			continue
		}

		res.Installed = append(res.Installed, pkg.Name)
	}

	ui.Summary(res)

	return res, nil
}
