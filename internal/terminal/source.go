package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
)

type lineResult struct {
	line string
	err  error
}

// LineSource reads reviewer commands line by line. A single goroutine owns
// the reader, so a cancelled read does not lose the next line.
type LineSource struct {
	in  io.Reader
	out io.Writer

	once  sync.Once
	lines chan lineResult
	done  bool
}

// NewLineSource reads commands from in and writes prompts to out.
func NewLineSource(in io.Reader, out io.Writer) *LineSource {
	if out == nil {
		out = io.Discard
	}
	return &LineSource{in: in, out: out}
}

func (s *LineSource) start() {
	s.lines = make(chan lineResult)
	go func() {
		defer close(s.lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			s.lines <- lineResult{line: scanner.Text()}
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		s.lines <- lineResult{err: err}
	}()
}

// ReadCommand prints prompt and waits for one line. It returns io.EOF once
// input is exhausted and ctx.Err() when ctx is cancelled first.
func (s *LineSource) ReadCommand(ctx context.Context, prompt string) (string, error) {
	if s.done {
		return "", io.EOF
	}
	s.once.Do(s.start)
	if prompt != "" {
		fmt.Fprint(s.out, prompt)
	}
	select {
	case res, ok := <-s.lines:
		if !ok {
			s.done = true
			return "", io.EOF
		}
		if res.err != nil {
			s.done = true
			if !errors.Is(res.err, io.EOF) {
				return "", fmt.Errorf("read command: %w", res.err)
			}
			return "", io.EOF
		}
		return res.line, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
