package main

import (
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
)

// writeOutput writes to path, or to stdout when path is "-". Output goes to
// a temporary file next to path and replaces it only once fully written, so
// path may also be the command's input.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}

	out, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "creating %s", path)
	}
	tmp := out.Name()

	success := false
	defer func() {
		out.Close()
		if !success {
			os.Remove(tmp)
		}
	}()

	if err := write(out); err != nil {
		return eris.Wrapf(err, "writing %s", path)
	}

	mode := os.FileMode(0o644)
	if fi, err := os.Stat(path); err == nil {
		mode = fi.Mode().Perm()
	}
	if err := out.Chmod(mode); err != nil {
		return eris.Wrapf(err, "setting mode of %s", path)
	}

	// Explicitly close to catch flush errors.
	if err := out.Close(); err != nil {
		return eris.Wrapf(err, "closing %s", path)
	}
	if err := os.Rename(tmp, path); err != nil {
		return eris.Wrapf(err, "replacing %s", path)
	}
	success = true
	return nil
}
