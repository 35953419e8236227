package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadSecretLine reads a single line from r and strips the line ending.
// It is used for passwords piped on stdin.
func ReadSecretLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil, fmt.Errorf("stdin is empty")
	}
	return []byte(line), nil
}
