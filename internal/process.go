package internal

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
)

// FileProcessor produces the result for one file.
type FileProcessor func(path string) (Result, error)

// ProcessOptions control ProcessPaths.
type ProcessOptions struct {
	// Accept selects the files taken from directories. Files named
	// explicitly are always processed.
	Accept func(path string) bool
	// Progress receives a progress bar for each directory; nil disables it.
	Progress io.Writer
	// Workers bounds concurrent processing; zero means runtime.NumCPU.
	Workers int
}

// ProcessPaths runs processor over every file named by paths, descending
// into directories. Results are sorted by filename. Files that fail are
// logged and skipped; a cancelled context stops the run.
func ProcessPaths(
	ctx context.Context,
	logger *zap.Logger,
	paths []string,
	opts ProcessOptions,
	processor FileProcessor,
) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var results []Result
	for _, path := range paths {
		res, err := processPath(ctx, logger, path, opts, processor)
		if err != nil {
			logger.Error("Error processing path", zap.String("path", path), zap.Error(err))
			return nil, err
		}
		results = append(results, res...)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Filename < results[j].Filename })
	return results, nil
}

func processPath(
	ctx context.Context,
	logger *zap.Logger,
	path string,
	opts ProcessOptions,
	processor FileProcessor,
) ([]Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("error accessing %s: %w", path, err)
	}

	if !info.IsDir() {
		res, err := processor(path)
		if err != nil {
			return nil, err
		}
		return []Result{res}, nil
	}

	var files []string
	err = filepath.Walk(path, func(filePath string, fileInfo os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !fileInfo.IsDir() && (opts.Accept == nil || opts.Accept(filePath)) {
			files = append(files, filePath)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory %s: %w", path, err)
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription(path),
			progressbar.OptionEnableColorCodes(true),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "[green]=[reset]",
				SaucerHead:    "[green]>[reset]",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}))
	}

	maxWorkers := opts.Workers
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}
	sem := make(chan struct{}, maxWorkers)
	resultChan := make(chan *Result, len(files))

	started := 0
	for _, filePath := range files {
		select {
		case <-ctx.Done():
		case sem <- struct{}{}:
		}
		if ctx.Err() != nil {
			break
		}
		started++
		go func(fp string) {
			defer func() { <-sem }()
			res, err := processor(fp)
			if bar != nil {
				_ = bar.Add(1)
			}
			if err != nil {
				logger.Error("Error processing file", zap.String("file", fp), zap.Error(err))
				resultChan <- nil
				return
			}
			resultChan <- &res
		}(filePath)
	}

	var results []Result
	for range started {
		if res := <-resultChan; res != nil {
			results = append(results, *res)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
