// Package parser converts tabular source files into tables, selecting the
// parsing strategy by a short format tag.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vgrebnev/tabparse/internal/table"
)

// Parser converts one source file into a table. Implementations are
// stateless values, constructed on demand and discarded after use.
type Parser interface {
	Parse(path string) (*table.Table, error)
}

// Constructor builds a fresh parser instance.
type Constructor func() Parser

var (
	// ErrUnknownFormat is returned by Resolve for a tag with no registration.
	ErrUnknownFormat = errors.New("no parser registered for format")
	// ErrInvalidParser is returned by Register for a constructor that does
	// not produce a parser.
	ErrInvalidParser = errors.New("constructor does not produce a parser")
)

// ParseError reports a source file that could not be read or decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Path, e.Err) }

func (e *ParseError) Unwrap() error { return e.Err }

// Registry maps lowercase format tags to parser constructors. Concurrent
// Resolve calls are safe once construction completes; Register calls after
// startup must be serialized by the caller.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry returns a registry with the built-in formats registered:
// csv, psv, excel and csv_to_excel.
func NewRegistry() *Registry {
	r := &Registry{constructors: make(map[string]Constructor)}
	r.constructors["csv"] = func() Parser { return CSVParser{} }
	r.constructors["psv"] = func() Parser { return PSVParser{} }
	r.constructors["excel"] = func() Parser { return ExcelParser{} }
	r.constructors["csv_to_excel"] = func() Parser { return CSVToExcelParser{} }
	return r
}

// Register stores ctor under tag, replacing any prior registration for the
// same tag.
func (r *Registry) Register(tag string, ctor Constructor) error {
	if ctor == nil || ctor() == nil {
		return fmt.Errorf("register %q: %w", tag, ErrInvalidParser)
	}
	r.constructors[strings.ToLower(tag)] = ctor
	return nil
}

// Resolve looks up tag case-insensitively and returns a fresh parser
// instance. Parsers are cheap stateless values, so there is no pooling.
func (r *Registry) Resolve(tag string) (Parser, error) {
	ctor, ok := r.constructors[strings.ToLower(tag)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, tag)
	}
	return ctor(), nil
}
