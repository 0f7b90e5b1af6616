package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	paranoid "github.com/kookyleo/paranoid-space"
	"github.com/kookyleo/paranoid-space/registry"
)

type processor struct {
	spacer *paranoid.Spacer
	opts   *options
	forced *registry.Walker // from --format
	stdout io.Writer
	stderr io.Writer
}

type result struct {
	path          string
	before, after string
	err           error
}

func (p *processor) walker(path string, content []byte) *registry.Walker {
	if p.forced != nil {
		return p.forced
	}
	return registry.ForFile(path, content)
}

// stdin processes standard input. Without --format it is plain text.
func (p *processor) stdin(r io.Reader) int {
	content, err := io.ReadAll(r)
	if err != nil {
		fmt.Fprintf(p.stderr, "paranoid: reading standard input: %v\n", err)
		return exitFailure
	}
	w := p.forced
	if w == nil {
		w = registry.Plain
	}
	res := result{path: "-", before: string(content)}
	res.after, res.err = w.Process(p.spacer, res.before)
	return p.report([]result{res})
}

// files processes files with a bounded number of workers. Results are
// reported in the order of the arguments.
func (p *processor) files(paths []string, jobs int) int {
	type job struct {
		idx  int
		path string
	}
	inCh := make(chan job, jobs*2)
	results := make([]result, len(paths))
	var wg sync.WaitGroup
	worker := func() {
		defer wg.Done()
		for j := range inCh {
			results[j.idx] = p.file(j.path)
		}
	}
	for i := 0; i < jobs && i < len(paths); i++ {
		wg.Add(1)
		go worker()
	}
	for i, path := range paths {
		inCh <- job{idx: i, path: path}
	}
	close(inCh)
	wg.Wait()
	return p.report(results)
}

func (p *processor) file(path string) result {
	res := result{path: path}
	content, err := os.ReadFile(path)
	if err != nil {
		res.err = err
		return res
	}
	res.before = string(content)
	w := p.walker(path, content)
	paranoid.CT().Debugf("%s: format %s", path, w.Name)
	if res.after, res.err = w.Process(p.spacer, res.before); res.err != nil {
		return res
	}
	if p.opts.write && !p.opts.check && res.after != res.before {
		res.err = writeAtomic(path, []byte(res.after))
	}
	return res
}

// report prints results and returns the exit code.
func (p *processor) report(results []result) int {
	code := exitOK
	out := bufio.NewWriter(p.stdout)
	defer out.Flush()
	for _, res := range results {
		if res.err != nil {
			fmt.Fprintf(p.stderr, "paranoid: %s: %v\n", res.path, res.err)
			code = exitFailure
			continue
		}
		changed := res.after != res.before
		switch {
		case p.opts.check:
			if changed {
				fmt.Fprintln(out, res.path)
				if code == exitOK {
					code = exitChanged
				}
			}
		case p.opts.diff:
			if !changed {
				continue
			}
			if err := writeDiff(out, res.path, res.before, res.after); err != nil {
				fmt.Fprintf(p.stderr, "paranoid: %s: %v\n", res.path, err)
				code = exitFailure
			}
		case p.opts.write:
			if changed {
				paranoid.CT().Infof("%s: rewritten", res.path)
			}
		default:
			out.WriteString(res.after)
		}
	}
	return code
}

// writeAtomic replaces a file by writing to a temporary file in the same
// directory and renaming it. The file mode is kept.
func writeAtomic(dest string, data []byte) error {
	info, err := os.Stat(dest)
	if err != nil {
		return err
	}
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".paranoid-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, info.Mode().Perm())
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
