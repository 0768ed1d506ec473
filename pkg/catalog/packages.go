package catalog

// The table mirrors the install chain it automates: MPI and the dense
// algebra stack first, then the I/O and helper libraries, then the
// chemistry codes that link against all of them. Archive names are
// exact; the installer never guesses at versions.
var packages = []*Package{
	{
		Name:    "OPENMPI",
		Version: "4.1.1",
		Archive: "openmpi-4.1.1.tar.gz",
		Steps: func(e *BuildEnv, prefix string) []Step {
			return []Step{
				{Argv: []string{"./configure", "--prefix=" + prefix, "--enable-shared", "--enable-mpi-fortran"}},
				{Argv: []string{"make", e.JobsFlag(), "all"}},
				{Argv: []string{"make", "install"}},
			}
		},
	},
	{
		Name:    "BOOST",
		Version: "1.76.0",
		Archive: "boost_1_76_0.tar.gz",
		Steps: func(e *BuildEnv, prefix string) []Step {
			return []Step{
				{Argv: []string{"./bootstrap.sh", "--prefix=" + prefix}},
				{Argv: []string{"./b2", e.JobsFlag(), "install"}},
			}
		},
	},
	{
		Name:    "OpenBLAS",
		Version: "0.3.15",
		Archive: "OpenBLAS-0.3.15.tar.gz",
		Steps: func(e *BuildEnv, prefix string) []Step {
			return []Step{
				{Argv: []string{"make", e.JobsFlag(), "USE_OPENMP=1"}},
				{Argv: []string{"make", "PREFIX=" + prefix, "install"}},
			}
		},
	},
	{
		Name:    "LAPACK",
		Version: "3.9.1",
		Archive: "lapack-3.9.1.tar.gz",
		SubDir:  "build",
		Steps: func(e *BuildEnv, prefix string) []Step {
			return []Step{
				{Argv: []string{
					"cmake",
					"-DCMAKE_INSTALL_PREFIX=" + prefix,
					"-DCMAKE_BUILD_TYPE=Release",
					"-DBUILD_SHARED_LIBS=ON",
					"-DLAPACKE=ON",
					"..",
				}},
				{Argv: []string{"make", e.JobsFlag()}},
				{Argv: []string{"make", "install"}},
			}
		},
	},
	{
		Name:    "scalapack",
		Version: "2.1.0",
		Archive: "scalapack-2.1.0.tar.gz",
		SubDir:  "build",
		Deps:    []string{"OPENMPI", "OpenBLAS"},
		Steps: func(e *BuildEnv, prefix string) []Step {
			blas := e.Lib("OpenBLAS") + "/libopenblas.so"

			return []Step{
				{Argv: []string{
					"cmake",
					"-DCMAKE_INSTALL_PREFIX=" + prefix,
					"-DCMAKE_BUILD_TYPE=Release",
					"-DBUILD_SHARED_LIBS=ON",
					"-DCMAKE_C_COMPILER=" + e.MPI("mpicc"),
					"-DCMAKE_Fortran_COMPILER=" + e.MPI("mpif90"),
					"-DBLAS_LIBRARIES=" + blas,
					"-DLAPACK_LIBRARIES=" + blas,
					"..",
				}},
				{Argv: []string{"make", e.JobsFlag()}},
				{Argv: []string{"make", "install"}},
			}
		},
	},
	{
		Name:    "FFTW",
		Version: "3.3.9",
		Archive: "fftw-3.3.9.tar.gz",
		Deps:    []string{"OPENMPI"},
		Steps: func(e *BuildEnv, prefix string) []Step {
			return []Step{
				{Argv: []string{
					"./configure",
					"--prefix=" + prefix,
					"--enable-mpi",
					"--enable-openmp",
					"--enable-shared",
					"MPICC=" + e.MPI("mpicc"),
				}},
				{Argv: []string{"make", e.JobsFlag()}},
				{Argv: []string{"make", "install"}},
			}
		},
	},
	{
		Name:    "hdf5",
		Version: "1.12.0",
		Archive: "hdf5-1.12.0.tar.gz",
		Deps:    []string{"OPENMPI"},
		Steps: func(e *BuildEnv, prefix string) []Step {
			return []Step{
				{Argv: []string{
					"./configure",
					"--prefix=" + prefix,
					"--enable-parallel",
					"--enable-fortran",
					"CC=" + e.MPI("mpicc"),
					"FC=" + e.MPI("mpif90"),
				}},
				{Argv: []string{"make", e.JobsFlag()}},
				{Argv: []string{"make", "install"}},
			}
		},
	},
	{
		Name:    "libint",
		Version: "2.6.0",
		Archive: "libint-2.6.0.tar.gz",
		Deps:    []string{"BOOST"},
		Steps: func(e *BuildEnv, prefix string) []Step {
			return []Step{
				{Argv: []string{
					"./configure",
					"--prefix=" + prefix,
					"--enable-shared",
					"--with-boost=" + e.DepPrefix("BOOST"),
				}},
				{Argv: []string{"make", e.JobsFlag()}},
				{Argv: []string{"make", "install"}},
			}
		},
	},
	{
		Name:    "libxc",
		Version: "5.1.5",
		Archive: "libxc-5.1.5.tar.gz",
		Steps: func(e *BuildEnv, prefix string) []Step {
			return []Step{
				{Argv: []string{"./configure", "--prefix=" + prefix, "--enable-shared"}},
				{Argv: []string{"make", e.JobsFlag()}},
				{Argv: []string{"make", "install"}},
			}
		},
	},
	{
		// Header-only; the one package the installer will fetch itself
		// when the archive is not present locally.
		Name:    "json",
		Version: "3.9.1",
		Archive: "json-3.9.1.tar.gz",
		URL:     "https://github.com/nlohmann/json/archive/refs/tags/v3.9.1.tar.gz",
		SubDir:  "build",
		Steps: func(e *BuildEnv, prefix string) []Step {
			return []Step{
				{Argv: []string{
					"cmake",
					"-DCMAKE_INSTALL_PREFIX=" + prefix,
					"-DJSON_BuildTests=OFF",
					"..",
				}},
				{Argv: []string{"make", "install"}},
			}
		},
	},
	{
		Name:    "wannier90",
		Version: "3.1.0",
		Archive: "wannier90-3.1.0.tar.gz",
		GitURL:  "https://github.com/wannier-developers/wannier90.git",
		GitTag:  "v3.1.0",
		Deps:    []string{"OPENMPI", "OpenBLAS"},
		Steps: func(e *BuildEnv, prefix string) []Step {
			return []Step{
				{Argv: []string{"cp", "config/make.inc.gfort", "make.inc"}},
				{Argv: []string{
					"make", e.JobsFlag(), "default",
					"F90=" + e.MPI("mpif90"),
					"COMMS=mpi",
					"MPIF90=" + e.MPI("mpif90"),
					"LIBS=-L" + e.Lib("OpenBLAS") + " -lopenblas",
				}},
			}
		},
		Install: []InstallFile{
			{Pattern: "wannier90.x", Dest: "bin/wannier90.x"},
			{Pattern: "postw90.x", Dest: "bin/postw90.x"},
			{Pattern: "libwannier.a", Dest: "lib/libwannier.a"},
		},
	},
	{
		Name:    "qe",
		Version: "6.8",
		Archive: "qe-6.8-ReleasePack.tar.gz",
		Deps:    []string{"OPENMPI", "OpenBLAS", "scalapack", "FFTW", "hdf5"},
		Steps: func(e *BuildEnv, prefix string) []Step {
			return []Step{
				{Argv: []string{
					"./configure",
					"--prefix=" + prefix,
					"--enable-parallel",
					"--with-scalapack=yes",
					"--with-hdf5=" + e.DepPrefix("hdf5"),
					"MPIF90=" + e.MPI("mpif90"),
					"BLAS_LIBS=-L" + e.Lib("OpenBLAS") + " -lopenblas",
					"LAPACK_LIBS=-L" + e.Lib("OpenBLAS") + " -lopenblas",
					"SCALAPACK_LIBS=-L" + e.Lib("scalapack") + " -lscalapack",
					"FFT_LIBS=-L" + e.Lib("FFTW") + " -lfftw3 -lfftw3_mpi",
				}},
				{Argv: []string{"make", e.JobsFlag(), "all"}},
				{Argv: []string{"make", "install"}},
			}
		},
	},
	{
		Name:    "nwchem",
		Version: "7.0.2",
		Archive: "nwchem-7.0.2-release.tar.gz",
		OwnRoot: true,
		Deps:    []string{"OPENMPI", "OpenBLAS", "scalapack"},
		Steps: func(e *BuildEnv, prefix string) []Step {
			env := []string{
				"NWCHEM_TOP=" + e.SrcDir,
				"NWCHEM_TARGET=LINUX64",
				"USE_MPI=y",
				"USE_SCALAPACK=y",
				"ARMCI_NETWORK=MPI-TS",
				"BLASOPT=-L" + e.Lib("OpenBLAS") + " -lopenblas",
				"LAPACK_LIB=-L" + e.Lib("OpenBLAS") + " -lopenblas",
				"SCALAPACK=-L" + e.Lib("scalapack") + " -lscalapack",
				"BLAS_SIZE=4",
				"SCALAPACK_SIZE=4",
			}

			return []Step{
				{Dir: "src", Env: env, Argv: []string{"make", "nwchem_config", "NWCHEM_MODULES=all"}},
				{Dir: "src", Env: env, Argv: []string{"make", e.JobsFlag()}},
			}
		},
		Install: []InstallFile{
			{Pattern: "bin/LINUX64/nwchem", Dest: "bin/nwchem"},
			{Pattern: "src/basis/libraries", Dest: "data/libraries"},
			{Pattern: "src/data", Dest: "data"},
		},
	},
}
