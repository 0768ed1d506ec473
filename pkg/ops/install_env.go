package ops

import (
	"github.com/chemstack/chemstack/pkg/catalog"
	"github.com/chemstack/chemstack/pkg/config"
)

// InstallEnv carries every location an install touches. It is built
// from config once and passed explicitly; installers keep no ambient
// state.
type InstallEnv struct {
	// RootDir is the install-location root; prefixes are
	// version-qualified directories under it.
	RootDir string

	// NWChemRoot is the separate root NWChem installs under.
	NWChemRoot string

	// ArchiveDir is where source archives are expected.
	ArchiveDir string

	// BuildDir is where source trees are extracted. Defaults to
	// ArchiveDir, matching the original working-directory layout.
	BuildDir string

	// ProfilePath is the shell profile updated after a successful
	// install.
	ProfilePath string

	Jobs int

	// RetainBuild keeps the extracted source tree around afterwards.
	RetainBuild bool

	// SkipProfile suppresses profile updates entirely.
	SkipProfile bool

	Config *config.Config
}

func NewInstallEnv(cfg *config.Config) *InstallEnv {
	return &InstallEnv{
		RootDir:     cfg.RootDir,
		NWChemRoot:  cfg.NWChemRoot,
		ArchiveDir:  cfg.ArchiveDir,
		BuildDir:    cfg.ArchiveDir,
		ProfilePath: cfg.ProfilePath,
		Jobs:        cfg.Jobs,
		Config:      cfg,
	}
}

func (e *InstallEnv) buildDir() string {
	if e.BuildDir != "" {
		return e.BuildDir
	}

	return e.ArchiveDir
}

func (e *InstallEnv) buildEnv() *catalog.BuildEnv {
	return &catalog.BuildEnv{
		RootDir:    e.RootDir,
		NWChemRoot: e.NWChemRoot,
		Jobs:       e.Jobs,
	}
}
