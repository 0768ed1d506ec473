package ops

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/chemstack/chemstack/pkg/catalog"
	"github.com/chemstack/chemstack/pkg/fileutils"
	"github.com/chemstack/chemstack/pkg/profile"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// PackageInstall drives one package from archive to installed prefix:
// fetch, unpack, run the descriptor's build steps, copy any extra
// install files, write the receipt, update the shell profile.
type PackageInstall struct {
	common

	Pkg *catalog.Package
}

func (i *PackageInstall) Install(ctx context.Context, ienv *InstallEnv) error {
	pkg := i.Pkg
	ui := GetUI(ctx)

	ui.Building(pkg)

	// Dependencies are preconditions, not triggers. Report every
	// missing one at once, before any fetching happens.
	benv := ienv.buildEnv()

	var merr error

	for _, dep := range pkg.Deps {
		prefix := benv.DepPrefix(dep)
		if _, err := os.Stat(prefix); err != nil {
			merr = multierror.Append(merr, errors.Errorf(
				"dependency %s of %s is not installed (expected at %s)",
				dep, pkg.Name, prefix))
		}
	}

	if merr != nil {
		return merr
	}

	var fetch ArchiveFetch
	fetch.SetLogger(i.L())

	archive, srcDir, err := fetch.Resolve(ctx, ienv, pkg)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			ui.ArchiveMissing(pkg.Name, pkg.Archive)
		}

		return err
	}

	if srcDir == "" {
		var unpack ArchiveUnpack
		unpack.SetLogger(i.L())

		srcDir, err = unpack.Unpack(archive, ienv.buildDir(), pkg.DirName())
		if err != nil {
			return err
		}
	}

	if !ienv.RetainBuild {
		defer func() {
			freed := diskUsage(srcDir)

			err := os.RemoveAll(srcDir)
			if err != nil {
				i.L().Warn("unable to remove source tree", "dir", srcDir, "error", err)
				return
			}

			ui.Cleaned(pkg.Name, freed)
		}()
	}

	benv.SrcDir = srcDir

	prefix := benv.Prefix(pkg)

	err = i.runSteps(ctx, ienv, benv, srcDir, prefix)
	if err != nil {
		return err
	}

	for _, inst := range pkg.Install {
		fi := &fileutils.Install{
			Ctx:     ctx,
			L:       i.L(),
			Pattern: filepath.Join(srcDir, inst.Pattern),
			Dest:    filepath.Join(prefix, inst.Dest),
		}

		err = fi.Install()
		if err != nil {
			return errors.Wrapf(err, "installing %s", inst.Pattern)
		}
	}

	if _, err := os.Stat(prefix); err != nil {
		return errors.Errorf("build finished but nothing was installed at %s", prefix)
	}

	err = WriteReceipt(ienv, pkg, prefix)
	if err != nil {
		i.L().Warn("unable to write install receipt", "prefix", prefix, "error", err)
	}

	if !ienv.SkipProfile {
		up := &profile.Updater{Path: ienv.ProfilePath}

		err = up.Add(pkg.Name, prefix)
		if err != nil {
			i.L().Warn("unable to update shell profile", "path", ienv.ProfilePath, "error", err)
		}
	}

	ui.Installed(pkg.Name, prefix)

	return nil
}

func (i *PackageInstall) runSteps(
	ctx context.Context, ienv *InstallEnv, benv *catalog.BuildEnv, srcDir, prefix string,
) error {
	pkg := i.Pkg

	path, env := stepEnviron(benv, pkg)

	run := &StepRun{
		OutputPrefix: pkg.Name,
		Env:          env,
		Path:         path,
	}
	run.SetLogger(i.L())

	stepDir := filepath.Join(srcDir, pkg.SubDir)

	for _, step := range pkg.Steps(benv, prefix) {
		dir := stepDir
		if step.Dir != "" {
			dir = filepath.Join(stepDir, step.Dir)
		}

		err := os.MkdirAll(dir, 0755)
		if err != nil {
			return err
		}

		err = run.Run(ctx, dir, step.Argv, step.Env)
		if err != nil {
			return errors.Wrapf(err, "building %s", pkg.Name)
		}
	}

	return nil
}

// stepEnviron builds the controlled environment steps run under: the
// system toolchain plus the bin, lib and include dirs of each declared
// dependency.
func stepEnviron(benv *catalog.BuildEnv, pkg *catalog.Package) (string, []string) {
	var (
		pathDirs []string
		cflags   string
		ldflags  string
		ldpath   string
	)

	for _, dep := range pkg.Deps {
		prefix := benv.DepPrefix(dep)

		if dirExists(filepath.Join(prefix, "bin")) {
			pathDirs = append(pathDirs, filepath.Join(prefix, "bin"))
		}

		if dirExists(filepath.Join(prefix, "include")) {
			cflags += " -I" + filepath.Join(prefix, "include")
		}

		if dirExists(filepath.Join(prefix, "lib")) {
			ldflags += " -L" + filepath.Join(prefix, "lib")

			if ldpath != "" {
				ldpath += string(filepath.ListSeparator)
			}
			ldpath += filepath.Join(prefix, "lib")
		}
	}

	// Dependency bins shadow the system toolchain, which is inherited
	// from the process so /usr/local/bin installs keep working.
	sysPath := os.Getenv("PATH")
	if sysPath == "" {
		sysPath = "/usr/bin" + string(filepath.ListSeparator) + "/bin"
	}

	pathDirs = append(pathDirs, filepath.SplitList(sysPath)...)
	path := strings.Join(pathDirs, string(filepath.ListSeparator))

	env := []string{
		"HOME=" + os.Getenv("HOME"),
		"PATH=" + path,
	}

	if cflags != "" {
		env = append(env, "CFLAGS="+cflags[1:], "CXXFLAGS="+cflags[1:])
	}

	if ldflags != "" {
		env = append(env, "LDFLAGS="+ldflags[1:])
	}

	if ldpath != "" {
		env = append(env, "LD_LIBRARY_PATH="+ldpath)
	}

	return path, env
}

func dirExists(dir string) bool {
	fi, err := os.Stat(dir)
	return err == nil && fi.IsDir()
}

func diskUsage(dir string) int64 {
	var total int64

	filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}

		if info.Mode().IsRegular() {
			total += info.Size()
		}

		return nil
	})

	return total
}
