package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"
)

// RunBatch converts every input with the same settings, up to cfg.Jobs at a
// time (one per CPU when unset). Each conversion loads its own copy of its
// source and builds its own palette and matcher. The first failure cancels
// the conversions not yet started. Results keep the order of inputs.
//
// Inputs whose default outputs would land in the same directory under the
// same base name (a/pic.png and b/pic.png with one OutDir, or a file listed
// twice) get a numeric suffix, pic_2, pic_3, so no result overwrites
// another.
func RunBatch(ctx context.Context, inputs []string, cfg Config) ([]*Outputs, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input files")
	}
	j, err := newJob(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.OutDir != "" {
		if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
			return nil, err
		}
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	bar := newProgress(len(inputs), os.Stderr)

	names := j.uniqueNames(inputs)
	results := make([]*Outputs, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := j.convert(in, names[i], "", "")
			if err != nil {
				return err
			}
			results[i] = out
			bar.Add(1)
			return nil
		})
	}
	err = g.Wait()
	bar.Finish()
	if err != nil {
		return nil, err
	}
	return results, nil
}

// uniqueNames returns the naming path for each input. The first input to
// claim an output directory and base name keeps it; later ones take the
// lowest free numeric suffix.
func (j *job) uniqueNames(inputs []string) []string {
	type slot struct{ dir, stem string }
	key := func(in, stem string) slot {
		dir := j.outDir(in)
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		return slot{dir, stem}
	}
	stemOf := func(in string) string {
		return strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	}

	// Every original stem is reserved so a suffix never takes the name of
	// another input.
	reserved := make(map[slot]bool, len(inputs))
	for _, in := range inputs {
		reserved[key(in, stemOf(in))] = true
	}
	taken := make(map[slot]bool, len(inputs))
	names := make([]string, len(inputs))
	for i, in := range inputs {
		stem := stemOf(in)
		k := key(in, stem)
		if taken[k] {
			for n := 2; ; n++ {
				stem = fmt.Sprintf("%s_%d", stemOf(in), n)
				k = key(in, stem)
				if !taken[k] && !reserved[k] {
					break
				}
			}
		}
		taken[k] = true
		names[i] = filepath.Join(filepath.Dir(in), stem+filepath.Ext(in))
	}
	return names
}

// newProgress draws a progress bar on w when it is a terminal and discards
// updates otherwise.
func newProgress(total int, w *os.File) *progressbar.ProgressBar {
	var out io.Writer = io.Discard
	if fd := w.Fd(); isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		out = w
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription("converting"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}
