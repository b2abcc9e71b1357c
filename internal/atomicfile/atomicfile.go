// Package atomicfile writes files so readers never observe partial content.
package atomicfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Pending is a fully written temporary file waiting to be renamed over its
// target. Exactly one of Commit or Discard should be called.
type Pending struct {
	tmp string
	abs string
}

// Stage streams fn's output into a temporary file in the same directory as
// path and syncs it to disk. Nothing at path is touched until Commit. On
// failure the temporary file is removed.
func Stage(path string, fn func(w io.Writer) error) (p *Pending, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(abs)
	if st, serr := os.Stat(dir); serr != nil {
		return nil, serr
	} else if !st.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(abs)+".tmp-*")
	if err != nil {
		return nil, err
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	bw := bufio.NewWriter(f)
	if err = fn(bw); err != nil {
		return nil, err
	}
	if err = bw.Flush(); err != nil {
		return nil, err
	}
	if err = f.Sync(); err != nil {
		return nil, err
	}
	if err = f.Chmod(0o644); err != nil {
		return nil, err
	}
	if err = f.Close(); err != nil {
		return nil, err
	}
	return &Pending{tmp: tmp, abs: abs}, nil
}

// Path is the absolute path the file will have once committed.
func (p *Pending) Path() string { return p.abs }

// Commit renames the staged file into place and returns its absolute path.
func (p *Pending) Commit() (string, error) {
	if err := os.Rename(p.tmp, p.abs); err != nil {
		os.Remove(p.tmp)
		return "", err
	}
	return p.abs, nil
}

// Discard removes the staged file, leaving the target untouched.
func (p *Pending) Discard() {
	os.Remove(p.tmp)
}

// Write creates path by staging fn's output and renaming it into place once
// everything is flushed. On any failure path is left untouched. The
// absolute path of the written file is returned.
func Write(path string, fn func(w io.Writer) error) (string, error) {
	p, err := Stage(path, fn)
	if err != nil {
		return "", err
	}
	return p.Commit()
}
