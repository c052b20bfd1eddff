package metadata

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/askiada/seasnap/pkg/pipeline"
	"github.com/askiada/seasnap/pkg/pipeline/model"
)

// foundFile is a file discovered under a scan root. idx is its rank in the walk.
type foundFile struct {
	idx  int
	rel  string
	path string
}

type indexed interface {
	index() int
}

func (f foundFile) index() int { return f.idx }

func checkRoot(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fsErrorf("scan directory %s: %s", root, err)
	}
	if !info.IsDir() {
		return fsErrorf("scan directory %s is not a directory", root)
	}

	return nil
}

// addWalkStep emits every non directory entry under root in lexical order. Symbolic links to
// directories are followed; a directory reached twice through links is walked once.
func addWalkStep(pipe *pipeline.Pipeline, root string) (*model.Step[foundFile], error) {
	return pipeline.AddRootStep(pipe, "walk", func(ctx context.Context, rootChan chan<- foundFile) error {
		realRoot, err := filepath.EvalSymlinks(root)
		if err != nil {
			return fsErrorf("resolve %s: %s", root, err)
		}
		w := &walker{
			root:    root,
			visited: make(map[string]struct{}),
			emit: func(file foundFile) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case rootChan <- file:
					return nil
				}
			},
		}

		return w.walk(realRoot, "")
	})
}

type walker struct {
	root    string
	idx     int
	visited map[string]struct{}
	emit    func(foundFile) error
}

// walk visits dir, a resolved directory, whose entries are reported relative to the scan root
// under prefix.
func (w *walker) walk(dir, prefix string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fsErrorf("walk %s: %s", p, err)
		}
		if d.IsDir() {
			resolved, err := filepath.EvalSymlinks(p)
			if err != nil {
				return fsErrorf("resolve %s: %s", p, err)
			}
			if _, ok := w.visited[resolved]; ok {
				return filepath.SkipDir
			}
			w.visited[resolved] = struct{}{}

			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return errors.Wrapf(err, "unable to relate %s to %s", p, dir)
		}
		rel = filepath.Join(prefix, rel)

		if d.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(p)
			if err != nil {
				// dangling link
				return nil //nolint:nilerr
			}
			if info.IsDir() {
				target, err := filepath.EvalSymlinks(p)
				if err != nil {
					return fsErrorf("resolve %s: %s", p, err)
				}

				return w.walk(target, rel)
			}
		}

		file := foundFile{idx: w.idx, rel: filepath.ToSlash(rel), path: filepath.Join(w.root, rel)}
		w.idx++

		return w.emit(file)
	})
}

// addCollectSink gathers every input of step; the returned function sorts them back into
// walk order once the pipeline has run.
func addCollectSink[T indexed](pipe *pipeline.Pipeline, step *model.Step[T]) (func() []T, error) {
	var (
		mu  sync.Mutex
		res []T
	)
	err := pipeline.AddSink(pipe, "collect", step, func(_ context.Context, item T) error {
		mu.Lock()
		defer mu.Unlock()
		res = append(res, item)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return func() []T {
		mu.Lock()
		defer mu.Unlock()
		sort.Slice(res, func(i, j int) bool {
			return res[i].index() < res[j].index()
		})

		return res
	}, nil
}
