// Package catalog is the declarative table of installable packages.
// Each entry names its source archive, its dependencies, and how to
// drive the package's own build system; one generic installer in
// pkg/ops consumes the entries.
package catalog

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Step is one build command run from the package source tree.
type Step struct {
	// Argv is the command and its arguments. The command is resolved
	// against the build PATH unless it contains a path separator.
	Argv []string

	// Dir is a directory relative to the package's build dir to run
	// from. It is created if missing (cmake out-of-tree builds).
	Dir string

	// Env holds extra KEY=VALUE entries for this step only.
	Env []string
}

// InstallFile copies build artifacts into the install prefix for
// packages whose build system has no install target.
type InstallFile struct {
	// Pattern is a path or glob relative to the source dir.
	Pattern string

	// Dest is the destination path relative to the prefix. For a glob
	// pattern it is treated as a directory.
	Dest string
}

type Package struct {
	// Name is the canonical command line token, matched case
	// sensitively.
	Name string

	Version string

	// Archive is the exact source archive filename expected in the
	// archive dir.
	Archive string

	// URL, when set, lets the installer download the archive if it is
	// not present locally.
	URL string

	// GitURL/GitTag, when set, let the installer fall back to a
	// shallow git checkout when the archive is not present.
	GitURL string
	GitTag string

	// SubDir is a directory inside the source tree that the build
	// steps run from, e.g. "build" for out-of-tree cmake builds.
	SubDir string

	// OwnRoot installs under the NWChem root rather than the shared
	// install root.
	OwnRoot bool

	// Deps names packages whose prefixes must exist before this one
	// builds. Deps are preconditions; they are not installed
	// implicitly.
	Deps []string

	// Steps builds the command lines once the source tree location
	// and dependency prefixes are known.
	Steps func(env *BuildEnv, prefix string) []Step

	// Install is applied after all steps succeed.
	Install []InstallFile
}

// DirName is the version-qualified directory the package installs
// under, e.g. "openmpi-4.1.1".
func (p *Package) DirName() string {
	return strings.ToLower(p.Name) + "-" + p.Version
}

var aliases = map[string]string{
	"lapack": "LAPACK",
}

var index = map[string]*Package{}

func init() {
	for _, p := range packages {
		index[p.Name] = p
	}

	for alias, name := range aliases {
		index[alias] = index[name]
	}
}

// Lookup resolves a command line token to its descriptor. Matching is
// exact and case sensitive, plus the documented LAPACK/lapack alias.
func Lookup(token string) (*Package, bool) {
	p, ok := index[token]
	return p, ok
}

func All() []*Package {
	out := make([]*Package, len(packages))
	copy(out, packages)
	return out
}

// Tokens returns every accepted token, canonical names first.
func Tokens() []string {
	var out []string

	for _, p := range packages {
		out = append(out, p.Name)
	}

	var extra []string
	for alias := range aliases {
		extra = append(extra, alias)
	}

	sort.Strings(extra)

	return append(out, extra...)
}

// Validate checks that every declared dependency resolves to a table
// entry. It runs before any dispatch so that a broken graph is
// reported up front rather than mid-build.
func Validate() error {
	for _, p := range packages {
		for _, dep := range p.Deps {
			if _, ok := index[dep]; !ok {
				return errors.Errorf("package %s depends on unknown package %s", p.Name, dep)
			}
		}
	}

	return nil
}

// Closure returns the packages for the given tokens plus everything
// they depend on, dependencies first. Unknown tokens are an error.
func Closure(tokens []string) ([]*Package, error) {
	var (
		out  []*Package
		seen = map[string]bool{}
	)

	var visit func(p *Package) error
	visit = func(p *Package) error {
		if seen[p.Name] {
			return nil
		}
		seen[p.Name] = true

		for _, dep := range p.Deps {
			dp, ok := index[dep]
			if !ok {
				return errors.Errorf("package %s depends on unknown package %s", p.Name, dep)
			}

			if err := visit(dp); err != nil {
				return err
			}
		}

		out = append(out, p)
		return nil
	}

	for _, tok := range tokens {
		p, ok := index[tok]
		if !ok {
			return nil, errors.Errorf("unknown package: %s", tok)
		}

		if err := visit(p); err != nil {
			return nil, err
		}
	}

	return out, nil
}
