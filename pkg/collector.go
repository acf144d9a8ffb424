package dirhash

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

// dirTask is one unit of collector work: a directory to enumerate under the
// filter context of the Entry that reached it.
type dirTask struct {
	entry *Entry
	path  string
	ctx   *contextState
}

// collect runs the parallel recursive traversal of §4.6, producing the
// deterministic sorted file list. Workers never block on submitting newly
// discovered subdirectories: each push to the task channel happens on its
// own goroutine, guarded by a WaitGroup counted before the goroutine starts,
// so the channel-closing goroutine never races a worker's own send.
func collect(ctx context.Context, opts *Options, run *runState, progress *progressSink) ([]string, error) {
	set := newPathSet()
	tasks := make(chan dirTask, opts.threads*4)
	var pending sync.WaitGroup
	var collectedDirs int64

	for _, e := range opts.entries {
		pending.Add(1)
		t := dirTask{entry: e, path: e.Root(), ctx: newContextState(e.contextFiles)}
		go func(t dirTask) { tasks <- t }(t)
	}

	var workers sync.WaitGroup
	for i := 0; i < opts.threads; i++ {
		workers.Add(1)
		go func() {
			defer workers.Done()
			for t := range tasks {
				processDirectory(ctx, t, opts, run, set, tasks, &pending, progress, &collectedDirs)
				pending.Done()
			}
		}()
	}

	go func() {
		pending.Wait()
		close(tasks)
	}()

	workers.Wait()

	run.mu.Lock()
	fatal := run.firstFatal
	run.mu.Unlock()
	if fatal != nil {
		return nil, fatal
	}
	if run.isCancelled() {
		return nil, ErrCancelled
	}
	return set.sorted(), nil
}

func processDirectory(ctx context.Context, t dirTask, opts *Options, run *runState, set *pathSet, tasks chan<- dirTask, pending *sync.WaitGroup, progress *progressSink, collectedDirs *int64) {
	if run.isCancelled() {
		return
	}
	select {
	case <-ctx.Done():
		run.requestCancel(ErrCancelled)
		return
	default:
	}

	t.ctx.consider(t.path)

	children, err := os.ReadDir(t.path)
	if err != nil {
		run.tolerate(t.path, NewIoError(t.path, err))
		return
	}

	for _, child := range children {
		if run.isCancelled() {
			return
		}

		childPath := filepath.Join(t.path, child.Name())
		isDir := child.IsDir()

		if child.Type()&os.ModeSymlink != 0 {
			target, err := os.Stat(childPath)
			if err != nil {
				run.tolerate(childPath, NewIoError(childPath, err))
				continue
			}
			if target.IsDir() {
				// Symlinks to directories are never descended into (cycle
				// avoidance) and are not themselves collected as files.
				continue
			}
			isDir = false
		}

		if isDir {
			if !evaluateFilters(t.entry, opts.includes, opts.excludes, childPath, true) {
				continue
			}
			if !t.ctx.filteredChild(t.path, childPath, true) {
				continue
			}
			pending.Add(1)
			nt := dirTask{entry: t.entry, path: childPath, ctx: t.ctx}
			go func(nt dirTask) { tasks <- nt }(nt)
			continue
		}

		if !evaluateFilters(t.entry, opts.includes, opts.excludes, childPath, false) {
			continue
		}
		if !t.ctx.filteredChild(t.path, childPath, false) {
			continue
		}

		if _, err := child.Info(); err != nil {
			run.tolerate(childPath, NewIoError(childPath, err))
			continue
		}

		set.insert(childPath)
		run.resetConsecutiveFailures()
	}

	n := atomic.AddInt64(collectedDirs, 1)
	progress.send(ProgressEvent{Kind: ProgressCollected, Count: int(n)})
}
