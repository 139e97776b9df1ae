package parser

import (
	"fmt"
	"strings"

	"SalaryPrep/internal/ports"
)

// Registry keeps a mapping from dataset format names to their parsers.
type Registry struct {
	parsers map[string]ports.RecordParser
}

// NewRegistry builds a registry with the built-in CSV and HTML parsers.
func NewRegistry() *Registry {
	r := &Registry{parsers: map[string]ports.RecordParser{}}
	r.Register(CSVParser{})
	r.Register(HTMLTableParser{})
	return r
}

// Register adds or replaces a parser implementation.
func (r *Registry) Register(parser ports.RecordParser) {
	if r.parsers == nil {
		r.parsers = map[string]ports.RecordParser{}
	}
	r.parsers[parser.Format()] = parser
}

// Resolve returns a parser by format name or an error if it is absent.
func (r *Registry) Resolve(format string) (ports.RecordParser, error) {
	if parser, ok := r.parsers[strings.ToLower(strings.TrimSpace(format))]; ok {
		return parser, nil
	}
	return nil, fmt.Errorf("dataset format %s is not registered", format)
}
