package parser

import (
	"io"

	"github.com/sergev/lox/lang"
)

// ParseReader consumes source from an io.Reader and parses it.
func ParseReader(r io.Reader) ([]lang.Stmt, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(data))
}
