package ops

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// StepRun executes build steps with a controlled environment,
// streaming their output line by line under the package's name.
type StepRun struct {
	common

	OutputPrefix string

	// Env is the base environment every step sees.
	Env []string

	// Path is the executable search path, kept outside Env so lookups
	// don't have to parse it back out.
	Path string
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0111 != 0 {
		return nil
	}
	return os.ErrPermission
}

// lookPath resolves file against an explicit search path rather than
// the process's own PATH.
func lookPath(file string, path string) (string, error) {
	if strings.Contains(file, "/") {
		err := findExecutable(file)
		if err == nil {
			return file, nil
		}
		return "", err
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		full := filepath.Join(dir, file)
		if err := findExecutable(full); err == nil {
			return full, nil
		}
	}

	return "", errors.Wrapf(ErrNotFound, "unable to find executable: %s", file)
}

func (r *StepRun) Run(ctx context.Context, dir string, argv []string, extraEnv []string) error {
	if len(argv) == 0 {
		return errors.New("empty step")
	}

	exe := argv[0]

	var err error
	if filepath.Base(exe) == exe {
		exe, err = lookPath(exe, r.Path)
		if err != nil {
			return err
		}
	}

	r.L().Debug("run step", "args", argv, "dir", dir, "path", r.Path)

	cmd := exec.CommandContext(ctx, exe, argv[1:]...)
	cmd.Dir = dir
	cmd.Env = append(append([]string{}, r.Env...), extraEnv...)

	return r.stream(cmd)
}

func (r *StepRun) stream(cmd *exec.Cmd) error {
	or, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	er, err := cmd.StderrPipe()
	if err != nil {
		return err
	}

	var wg sync.WaitGroup

	emit := func(line string) {
		fmt.Printf("%s │ %s\n", r.OutputPrefix, strings.TrimRight(line, " \n\t"))
	}

	wg.Add(2)
	go func() {
		defer wg.Done()

		br := bufio.NewReader(or)
		for {
			line, err := br.ReadString('\n')
			if len(line) > 0 {
				emit(line)
			}

			if err != nil {
				return
			}
		}
	}()

	go func() {
		defer wg.Done()

		br := bufio.NewReader(er)
		for {
			line, err := br.ReadString('\n')
			if len(line) > 0 {
				emit(line)
			}

			if err != nil {
				return
			}
		}
	}()

	err = cmd.Start()
	if err != nil {
		return err
	}

	wg.Wait()

	return cmd.Wait()
}
