// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package loader

import (
	"bufio"
	"context"
	"os"
)

// TextLoader reads plain text: one line per physical line.
type TextLoader struct{}

// Load returns the file's lines without terminators.
func (l *TextLoader) Load(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
