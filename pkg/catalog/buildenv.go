package catalog

import (
	"path/filepath"
	"strconv"
)

// BuildEnv carries the resolved locations a package's steps are built
// against: the install roots, the unpacked source tree, and the
// parallelism to ask of make.
type BuildEnv struct {
	RootDir    string
	NWChemRoot string

	// SrcDir is the unpacked source tree. It is only set once the
	// archive has been extracted.
	SrcDir string

	Jobs int
}

// Prefix is the version-qualified install dir for a package.
func (e *BuildEnv) Prefix(p *Package) string {
	root := e.RootDir
	if p.OwnRoot && e.NWChemRoot != "" {
		root = e.NWChemRoot
	}

	return filepath.Join(root, p.DirName())
}

// DepPrefix resolves a dependency token to its install prefix.
func (e *BuildEnv) DepPrefix(token string) string {
	p, ok := Lookup(token)
	if !ok {
		return ""
	}

	return e.Prefix(p)
}

// MPI returns the path of an MPI compiler wrapper (mpicc, mpif90, ...)
// under the OpenMPI prefix.
func (e *BuildEnv) MPI(tool string) string {
	return filepath.Join(e.DepPrefix("OPENMPI"), "bin", tool)
}

func (e *BuildEnv) Lib(token string) string {
	return filepath.Join(e.DepPrefix(token), "lib")
}

func (e *BuildEnv) Include(token string) string {
	return filepath.Join(e.DepPrefix(token), "include")
}

func (e *BuildEnv) JobsFlag() string {
	jobs := e.Jobs
	if jobs < 1 {
		jobs = 1
	}

	return "-j" + strconv.Itoa(jobs)
}
