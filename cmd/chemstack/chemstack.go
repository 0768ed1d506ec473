package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/mitchellh/cli"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/chemstack/chemstack/pkg/catalog"
	"github.com/chemstack/chemstack/pkg/cmd"
	"github.com/chemstack/chemstack/pkg/config"
	"github.com/chemstack/chemstack/pkg/direnv"
	"github.com/chemstack/chemstack/pkg/lockfile"
	"github.com/chemstack/chemstack/pkg/ops"
	"github.com/chemstack/chemstack/pkg/profile"
)

func main() {
	c := cli.NewCLI("chemstack", "0.1.0")
	c.Args = os.Args[1:]
	c.Commands = map[string]cli.CommandFactory{
		"setup": func() (cli.Command, error) {
			return cmd.New(
				"setup",
				"create the config and install directories and show their locations",
				setupF,
			), nil
		},
		"install": func() (cli.Command, error) {
			return cmd.New(
				"install",
				"build and install the named packages from local archives",
				installF,
			), nil
		},
		"list": func() (cli.Command, error) {
			return cmd.New(
				"list",
				"list known packages and their install status",
				listF,
			), nil
		},
		"explain": func() (cli.Command, error) {
			return cmd.New(
				"explain",
				"show what installing the named packages would do",
				explainF,
			), nil
		},
		"env": func() (cli.Command, error) {
			return cmd.New(
				"env",
				"output or apply the environment of the installed packages",
				envF,
			), nil
		},
	}

	exitStatus, err := c.Run()
	if err != nil {
		log.Println(err)
	}

	os.Exit(exitStatus)
}

func setupF(ctx context.Context, opts struct{}) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return errors.Wrapf(err, "Unable to create or load configuration")
	}

	fmt.Printf("Config Dir: %s\n", cfg.ConfigDir())
	fmt.Printf("Install Root: %s\n", cfg.RootDir)
	fmt.Printf("NWChem Root: %s\n", cfg.NWChemRoot)
	fmt.Printf("Archive Dir: %s\n", cfg.ArchiveDir)
	fmt.Printf("Shell Profile: %s\n", cfg.ProfilePath)
	fmt.Printf("Build Jobs: %d\n", cfg.Jobs)

	constraints := cfg.Constraints()

	var keys []string
	for k := range constraints {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	for _, k := range keys {
		fmt.Printf("Constraint %s: %s\n", k, constraints[k])
	}

	return nil
}

func installF(ctx context.Context, opts struct {
	Explain   bool `short:"E" long:"explain" description:"explain what would be installed instead of installing"`
	Strict    bool `long:"strict" description:"exit nonzero when any requested package fails"`
	KeepBuild bool `long:"keep-build" description:"keep the extracted source trees after building"`
	NoProfile bool `long:"no-profile" description:"do not update the shell profile"`
	Jobs      int  `short:"j" long:"jobs" description:"parallel make jobs"`

	Pos struct {
		Packages []string `positional-arg-name:"package"`
	} `positional-args:"yes"`
}) error {
	if len(opts.Pos.Packages) == 0 {
		fmt.Println("specify one or more packages to install:")
		for _, tok := range catalog.Tokens() {
			fmt.Printf("  %s\n", tok)
		}

		return errors.New("no packages requested")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if opts.Jobs > 0 {
		cfg.Jobs = opts.Jobs
	}

	if opts.Explain {
		return explain(opts.Pos.Packages, false)
	}

	ienv := ops.NewInstallEnv(cfg)
	ienv.RetainBuild = opts.KeepBuild
	ienv.SkipProfile = opts.NoProfile

	var showLock bool
	cleanup, err := lockfile.Take(ctx, filepath.Join(cfg.RootDir, ".chemstack-lock"), func() {
		if !showLock {
			fmt.Printf("Lock detected, waiting...\n")
			showLock = true
		}
	})
	if err != nil {
		return err
	}

	defer cleanup()

	ctx = ops.WithUI(ctx, &ops.UI{W: os.Stdout})

	si := &ops.SetInstall{Env: ienv}

	res, err := si.Run(ctx, opts.Pos.Packages)
	if err != nil {
		return err
	}

	if opts.Strict && len(res.Failed)+len(res.Unknown) > 0 {
		return errors.Errorf("%d of %d requested packages did not install",
			len(res.Failed)+len(res.Unknown), len(res.Requested))
	}

	return nil
}

func listF(ctx context.Context, opts struct{}) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	benv := &catalog.BuildEnv{
		RootDir:    cfg.RootDir,
		NWChemRoot: cfg.NWChemRoot,
	}

	tw := tabwriter.NewWriter(os.Stdout, 4, 2, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintf(tw, "NAME\tVERSION\tARCHIVE\tSTATUS\n")

	for _, pkg := range catalog.All() {
		status := "-"

		if info, err := ops.ReadReceipt(benv.Prefix(pkg)); err == nil {
			status = "installed " + info.InstalledAt.Format("2006-01-02")
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", pkg.Name, pkg.Version, pkg.Archive, status)
	}

	return nil
}

func explainF(ctx context.Context, opts struct {
	Verbose bool `short:"v" long:"verbose" description:"dump full package descriptors"`

	Pos struct {
		Packages []string `positional-arg-name:"package"`
	} `positional-args:"yes"`
}) error {
	tokens := opts.Pos.Packages
	if len(tokens) == 0 {
		tokens = []string{}
		for _, pkg := range catalog.All() {
			tokens = append(tokens, pkg.Name)
		}
	}

	return explain(tokens, opts.Verbose)
}

func explain(tokens []string, verbose bool) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	pkgs, err := catalog.Closure(tokens)
	if err != nil {
		return err
	}

	benv := &catalog.BuildEnv{
		RootDir:    cfg.RootDir,
		NWChemRoot: cfg.NWChemRoot,
		SrcDir:     "<src>",
		Jobs:       cfg.Jobs,
	}

	for _, pkg := range pkgs {
		prefix := benv.Prefix(pkg)

		fmt.Printf("%s %s\n", pkg.Name, pkg.Version)
		fmt.Printf("  archive: %s\n", pkg.Archive)
		fmt.Printf("  prefix:  %s\n", prefix)

		if len(pkg.Deps) > 0 {
			fmt.Printf("  deps:    %s\n", strings.Join(pkg.Deps, ", "))
		}

		for _, step := range pkg.Steps(benv, prefix) {
			fmt.Printf("  $ %s\n", strings.Join(step.Argv, " "))
		}

		if verbose {
			spew.Dump(pkg)
		}
	}

	return nil
}

func envF(ctx context.Context, opts struct {
	Direnv  bool `short:"E" long:"direnv" description:"dump the env in direnv format"`
	Profile bool `short:"p" long:"profile" description:"output the shell profile path"`

	Pos struct {
		Args []string `positional-arg-name:"command"`
	} `positional-args:"yes"`
}) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	if opts.Profile {
		fmt.Println(cfg.ProfilePath)
		return nil
	}

	benv := &catalog.BuildEnv{
		RootDir:    cfg.RootDir,
		NWChemRoot: cfg.NWChemRoot,
	}

	var prefixes []string

	for _, pkg := range catalog.All() {
		prefix := benv.Prefix(pkg)

		if _, err := ops.ReadReceipt(prefix); err == nil {
			prefixes = append(prefixes, prefix)
		}
	}

	if opts.Direnv {
		var w io.Writer

		path := os.Getenv("DIRENV_DUMP_FILE_PATH")

		if path == "" {
			w = os.Stdout
		} else {
			f, err := os.Create(path)
			if err != nil {
				return err
			}

			defer f.Close()

			w = f
		}

		fmt.Fprintln(w, direnv.Dump(profile.EnvMap(os.Environ(), prefixes)))
		return nil
	}

	if len(opts.Pos.Args) == 0 {
		for _, pkg := range catalog.All() {
			prefix := benv.Prefix(pkg)

			if _, err := ops.ReadReceipt(prefix); err == nil {
				fmt.Print(profile.Block(pkg.Name, prefix))
			}
		}

		return nil
	}

	env := profile.ComputeEnv(os.Environ(), prefixes)

	path, err := exec.LookPath(opts.Pos.Args[0])
	if err != nil {
		return err
	}

	return unix.Exec(path, opts.Pos.Args, env)
}
