package coordinator

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"wordfreq/mapreduce/aggregator"
	"wordfreq/mapreduce/types"
)

// ErrNoInput is returned by Run when there is nothing to count.
var ErrNoInput = errors.New("no input files")

// ProcessFunc handles one input file. It is expected to log its own
// failures; the returned error is only recorded in the Report.
type ProcessFunc func(path string) error

// Reducer consumes the aggregated table once all files are done.
type Reducer interface {
	Reduce(src types.Snapshotter) error
}

// Report summarizes one run.
type Report struct {
	Files     int
	Succeeded int
	// Err joins the errors of every file that failed, nil if none did.
	Err error
}

// Coordinator runs one task per input file and reduces once all of them
// returned.
type Coordinator struct {
	agg     *aggregator.Aggregator
	process ProcessFunc
	logger  *log.Logger
	verbose bool

	mutex sync.Mutex
	wg    sync.WaitGroup
	errs  []error
}

// New creates a Coordinator counting into agg.
func New(agg *aggregator.Aggregator, process ProcessFunc, logger *log.Logger) *Coordinator {
	return &Coordinator{
		agg:     agg,
		process: process,
		logger:  logger,
	}
}

// SetVerbose sets whether progress messages are logged.
func (c *Coordinator) SetVerbose(verbose bool) {
	c.verbose = verbose
}

func (c *Coordinator) sendError(err error) {
	if err == nil {
		return
	}
	c.mutex.Lock()
	c.errs = append(c.errs, err)
	c.mutex.Unlock()
}

// runTask runs the process function for path and turns a panic into an
// error so the remaining tasks are still joined.
func (c *Coordinator) runTask(path string) {
	defer c.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			c.logger.Printf("exception in a concurrent task: %v", r)
			c.sendError(fmt.Errorf("%s: panic: %v", path, r))
		}
	}()
	c.sendError(c.process(path))
}

// Run counts every path concurrently, waits for all of them and then hands
// the aggregator to r. Failing files are absorbed into the Report; the
// returned error is ErrNoInput or whatever r returned.
func (c *Coordinator) Run(paths []string, r Reducer) (Report, error) {
	if len(paths) == 0 {
		return Report{}, ErrNoInput
	}
	c.mutex.Lock()
	c.errs = c.errs[:0]
	c.mutex.Unlock()

	if c.verbose {
		c.logger.Printf("[coordinator] starting %d tasks", len(paths))
	}
	for _, path := range paths {
		c.wg.Add(1)
		go c.runTask(path)
	}
	c.wg.Wait()

	c.mutex.Lock()
	report := Report{
		Files:     len(paths),
		Succeeded: len(paths) - len(c.errs),
		Err:       errors.Join(c.errs...),
	}
	c.mutex.Unlock()
	if c.verbose {
		c.logger.Printf("[coordinator] all %d files processed, %d failed, %d distinct tokens",
			report.Files, report.Files-report.Succeeded, c.agg.Len())
	}

	if err := r.Reduce(c.agg); err != nil {
		return report, fmt.Errorf("reduce: %w", err)
	}
	return report, nil
}
