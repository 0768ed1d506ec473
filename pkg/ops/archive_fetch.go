package ops

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/chemstack/chemstack/pkg/catalog"
	"github.com/chemstack/chemstack/pkg/cleanhttp"
	"github.com/chemstack/chemstack/pkg/progress"
	"github.com/chemstack/chemstack/pkg/sumfile"
	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/pkg/errors"
)

// SumfileName is looked up next to the archives; when present, any
// archive with an entry is verified against it.
const SumfileName = "archives.sum"

// ArchiveFetch locates a package's source. Normally that is an archive
// already sitting in the archive dir; descriptors may allow a download
// or a shallow git checkout as a fallback.
type ArchiveFetch struct {
	common
}

// Resolve returns either the archive path to unpack, or a source dir
// when the fallback produced a checkout directly.
func (f *ArchiveFetch) Resolve(ctx context.Context, ienv *InstallEnv, pkg *catalog.Package) (string, string, error) {
	path := filepath.Join(ienv.ArchiveDir, pkg.Archive)

	if _, err := os.Stat(path); err == nil {
		if err := f.verify(ienv, pkg, path); err != nil {
			return "", "", err
		}

		return path, "", nil
	}

	if pkg.URL != "" {
		err := f.download(ctx, pkg, path)
		if err != nil {
			return "", "", err
		}

		if err := f.verify(ienv, pkg, path); err != nil {
			return "", "", err
		}

		return path, "", nil
	}

	if pkg.GitURL != "" {
		dir, err := f.clone(ctx, ienv, pkg)
		if err != nil {
			return "", "", err
		}

		return "", dir, nil
	}

	return "", "", errors.Wrapf(ErrNotFound, "archive %s not present in %s", pkg.Archive, ienv.ArchiveDir)
}

func (f *ArchiveFetch) verify(ienv *InstallEnv, pkg *catalog.Package, path string) error {
	sf, err := sumfile.LoadFile(filepath.Join(ienv.ArchiveDir, SumfileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	algo, sum, ok := sf.Lookup(pkg.Archive)
	if !ok {
		return nil
	}

	r, err := os.Open(path)
	if err != nil {
		return err
	}

	defer r.Close()

	f.L().Debug("verifying archive", "archive", pkg.Archive, "algo", algo)

	err = sumfile.Verify(r, algo, sum)
	if err != nil {
		return errors.Wrapf(err, "archive %s", pkg.Archive)
	}

	return nil
}

func (f *ArchiveFetch) download(ctx context.Context, pkg *catalog.Package, path string) error {
	f.L().Info("downloading archive", "url", pkg.URL, "into", path)

	resp, err := cleanhttp.Get(ctx, pkg.URL)
	if err != nil {
		return err
	}

	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return errors.Errorf("unexpected status downloading %s: %s", pkg.URL, resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}

	defer out.Close()

	pb := progress.Count(ctx, resp.ContentLength, pkg.Archive)
	defer pb.Close()

	_, err = io.Copy(io.MultiWriter(out, pb.Writer()), resp.Body)
	if err != nil {
		os.Remove(path)
		return err
	}

	return nil
}

func (f *ArchiveFetch) clone(ctx context.Context, ienv *InstallEnv, pkg *catalog.Package) (string, error) {
	dir := filepath.Join(ienv.buildDir(), pkg.DirName())

	os.RemoveAll(dir)

	f.L().Info("cloning source", "url", pkg.GitURL, "tag", pkg.GitTag, "into", dir)

	opts := &git.CloneOptions{
		URL:          pkg.GitURL,
		Depth:        1,
		SingleBranch: true,
	}

	if pkg.GitTag != "" {
		opts.ReferenceName = plumbing.NewTagReferenceName(pkg.GitTag)
	}

	_, err := git.PlainCloneContext(ctx, dir, false, opts)
	if err != nil {
		os.RemoveAll(dir)
		return "", errors.Wrapf(err, "unable to clone %s", pkg.GitURL)
	}

	return dir, nil
}
