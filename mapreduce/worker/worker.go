package worker

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"wordfreq/mapreduce/functions"
	"wordfreq/utils"
)

var (
	ErrNotExist   = errors.New("file does not exist")
	ErrCannotOpen = errors.New("cannot open file")
	ErrDecode     = errors.New("invalid UTF-8")
)

// Incrementer is the part of the aggregator a worker writes to.
type Incrementer interface {
	Increment(token string)
}

// Result describes what a worker consumed from one file.
type Result struct {
	Path   string
	Lines  int
	Tokens int
	// Digest is the MD5 of every byte read, including a partial read that
	// ended in an error.
	Digest string
}

// Worker counts the tokens of one file at a time into a shared Incrementer.
type Worker struct {
	agg     Incrementer
	logger  *log.Logger
	verbose bool
}

// New creates a Worker. Diagnostics are written to logger, which must not
// be nil.
func New(agg Incrementer, logger *log.Logger) *Worker {
	return &Worker{
		agg:    agg,
		logger: logger,
	}
}

// SetVerbose sets whether a line is logged for every completed file.
func (w *Worker) SetVerbose(verbose bool) {
	w.verbose = verbose
}

// Process reads path line by line and counts its tokens.
// Failures are logged and returned; tokens counted before a mid-file
// failure stay counted.
func (w *Worker) Process(path string) (res Result, err error) {
	res.Path = path
	file, err := open(path)
	if err != nil {
		w.logger.Println(err)
		return res, err
	}
	defer file.Close()
	adviseSequential(file)

	digest := utils.NewDigest()
	reader := bufio.NewReader(io.TeeReader(file, digest))
	defer func() {
		res.Digest = digest.String()
	}()
	for {
		line, readErr := reader.ReadString('\n')
		if len(line) > 0 {
			res.Lines++
			if !utf8.ValidString(line) {
				err = fmt.Errorf("%w on line %d", ErrDecode, res.Lines)
				w.logger.Printf("exception processing file %s: %v", path, err)
				return res, fmt.Errorf("%s: %w", path, err)
			}
			res.Tokens += w.countLine(line)
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			w.logger.Printf("exception processing file %s: %v", path, readErr)
			return res, fmt.Errorf("%s: %w", path, readErr)
		}
	}
	if w.verbose {
		w.logger.Printf("[worker] %s: %d lines, %d tokens, md5 %s", path, res.Lines, res.Tokens, digest)
	}
	return res, nil
}

func (w *Worker) countLine(line string) int {
	line = strings.TrimSuffix(line, "\n")
	n := 0
	for token := range functions.Tokens(line) {
		w.agg.Increment(token)
		n++
	}
	return n
}

// open distinguishes a missing file from one that exists but cannot be read.
// A directory opens fine on most systems but fails on the first read, so it
// is rejected here as well.
func open(path string) (*os.File, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotExist, path)
	}
	if err == nil && info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrCannotOpen, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCannotOpen, path)
	}
	return file, nil
}
