// Package profile maintains the marker-delimited export blocks that
// installed packages contribute to the user's shell profile.
package profile

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
)

const (
	beginMark = "# >>> chemstack: %s >>>"
	endMark   = "# <<< chemstack: %s <<<"
)

// Updater appends export blocks to the profile file at Path. Each
// package gets at most one block, guarded by its marker line.
type Updater struct {
	Path string
}

// Block renders the export lines for a prefix. The four variables
// cover executables, shared and static linking, and headers, each
// prepended to any existing value.
func Block(name, prefix string) string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, beginMark+"\n", name)
	fmt.Fprintf(&buf, "export PATH=%s/bin:$PATH\n", prefix)
	fmt.Fprintf(&buf, "export LD_LIBRARY_PATH=%s/lib:$LD_LIBRARY_PATH\n", prefix)
	fmt.Fprintf(&buf, "export LIBRARY_PATH=%s/lib:$LIBRARY_PATH\n", prefix)
	fmt.Fprintf(&buf, "export CPATH=%s/include:$CPATH\n", prefix)
	fmt.Fprintf(&buf, endMark+"\n", name)

	return buf.String()
}

// Has reports whether the profile already carries a block for name. A
// missing profile file means no.
func (u *Updater) Has(name string) (bool, error) {
	data, err := ioutil.ReadFile(u.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	marker := fmt.Sprintf(beginMark, name)

	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == marker {
			return true, nil
		}
	}

	return false, nil
}

// Add appends the block for name unless its marker is already
// present. The profile file is created when missing.
func (u *Updater) Add(name, prefix string) error {
	ok, err := u.Has(name)
	if err != nil {
		return err
	}

	if ok {
		return nil
	}

	f, err := os.OpenFile(u.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}

	defer f.Close()

	_, err = fmt.Fprintf(f, "\n%s", Block(name, prefix))
	return err
}

// EnvMap applies the given install prefixes to a process environment,
// returning the result as a map.
func EnvMap(environ []string, prefixes []string) map[string]string {
	m := map[string]string{}

	for _, kv := range environ {
		eq := strings.IndexByte(kv, '=')
		if eq == -1 {
			continue
		}

		m[kv[:eq]] = kv[eq+1:]
	}

	sep := string(filepath.ListSeparator)

	prependVar := func(key, dir string) {
		if cur, ok := m[key]; ok && cur != "" {
			m[key] = dir + sep + cur
		} else {
			m[key] = dir
		}
	}

	for i := len(prefixes) - 1; i >= 0; i-- {
		prefix := prefixes[i]

		prependVar("PATH", filepath.Join(prefix, "bin"))
		prependVar("LD_LIBRARY_PATH", filepath.Join(prefix, "lib"))
		prependVar("LIBRARY_PATH", filepath.Join(prefix, "lib"))
		prependVar("CPATH", filepath.Join(prefix, "include"))
	}

	return m
}

// ComputeEnv is EnvMap flattened back into KEY=VALUE form, for
// passing to exec.
func ComputeEnv(environ []string, prefixes []string) []string {
	m := EnvMap(environ, prefixes)

	out := make([]string, 0, len(m))
	for k, v := range m {
		out = append(out, k+"="+v)
	}

	return out
}
