package ops

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter"
	"github.com/pkg/errors"
)

// ArchiveUnpack extracts a source archive into a fresh directory named
// after the package, regardless of what the archive's internal top
// directory is called.
type ArchiveUnpack struct {
	common
}

func decompressorFor(path string) (getter.Decompressor, bool) {
	var (
		archive     string
		matchingLen int
	)

	for k := range getter.Decompressors {
		if strings.HasSuffix(path, "."+k) && len(k) > matchingLen {
			archive = k
			matchingLen = len(k)
		}
	}

	dec, ok := getter.Decompressors[archive]
	return dec, ok
}

func (a *ArchiveUnpack) Unpack(archive, buildDir, name string) (string, error) {
	dec, ok := decompressorFor(archive)
	if !ok {
		return "", errors.Errorf("no known decompressor for %s", archive)
	}

	target := filepath.Join(buildDir, name)
	stage := target + ".unpack"

	// Fresh extraction every time; stale trees from a previous run are
	// discarded.
	os.RemoveAll(target)
	os.RemoveAll(stage)

	err := os.MkdirAll(stage, 0755)
	if err != nil {
		return "", track(err)
	}

	a.L().Debug("unpacking", "archive", archive, "into", stage)

	err = dec.Decompress(stage, archive, true, 0)
	if err != nil {
		os.RemoveAll(stage)
		return "", errors.Wrapf(err, "unable to decompress %s", archive)
	}

	inner := singleDir(stage)

	if inner == stage {
		err = os.Rename(stage, target)
	} else {
		err = os.Rename(inner, target)
		os.RemoveAll(stage)
	}

	if err != nil {
		return "", track(err)
	}

	return target, nil
}

// singleDir descends into dir when it holds exactly one visible entry
// that is itself a directory, the usual tarball layout.
func singleDir(dir string) string {
	sf, err := ioutil.ReadDir(dir)
	if err != nil {
		return dir
	}

	var (
		ent os.FileInfo
		cnt int
	)

	for _, e := range sf {
		if e.Name()[0] != '.' {
			cnt++
			ent = e
		}
	}

	if cnt == 1 && ent.IsDir() {
		return filepath.Join(dir, ent.Name())
	}

	return dir
}
