package linker

import (
	"context"
	"fmt"
	"os"

	"github.com/gofrs/flock"

	"muselink/internal/services"
)

// ProcessFile reads a document, runs the normal linking flow, and writes
// the result. IO failures are fatal; everything else degrades to warnings.
func (p *Pipeline) ProcessFile(ctx context.Context, inputPath, outputPath string) error {
	return p.rewriteFile(ctx, inputPath, outputPath, p.ProcessString)
}

// RetryFile reads a document, runs the failed-link retry flow, and writes
// the result.
func (p *Pipeline) RetryFile(ctx context.Context, inputPath, outputPath string) error {
	return p.rewriteFile(ctx, inputPath, outputPath, p.RetryString)
}

func (p *Pipeline) rewriteFile(ctx context.Context, inputPath, outputPath string, process func(context.Context, string) (string, error)) error {
	ctx = services.WithDocument(ctx, inputPath)

	if inputPath == outputPath {
		unlock, err := acquireLock(outputPath)
		if err != nil {
			return err
		}
		defer unlock()
	}

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	output, err := process(ctx, string(data))
	if err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, []byte(output), 0o644); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

// acquireLock guards in-place rewrites so two concurrent invocations
// cannot interleave their read and write of the same document.
func acquireLock(path string) (func(), error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another muselink run is rewriting %s", path)
	}
	return func() {
		_ = lock.Unlock()
		_ = os.Remove(lock.Path())
	}, nil
}
