package trace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Tracer provides per-instruction execution tracing for debugging
type Tracer struct {
	enabled bool
	filters []string
	writer  io.Writer
	mu      sync.Mutex
}

// Global tracer instance
var globalTracer *Tracer

// Init initializes the global tracer
func Init(enabled bool, filters []string, writer io.Writer) {
	if writer == nil {
		writer = os.Stderr
	}
	globalTracer = &Tracer{
		enabled: enabled,
		filters: filters,
		writer:  writer,
	}
}

// IsEnabled returns whether tracing is enabled
func IsEnabled() bool {
	if globalTracer == nil {
		return false
	}
	return globalTracer.enabled
}

// matchesFilter checks if an opcode matches any of the filter patterns
func (t *Tracer) matchesFilter(opcode string) bool {
	if len(t.filters) == 0 {
		return true // No filters = trace everything
	}

	for _, pattern := range t.filters {
		if matched, _ := filepath.Match(strings.ToUpper(pattern), opcode); matched {
			return true
		}
	}
	return false
}

// Instruction logs one executed instruction with its source ordinal and
// rendered operands.
func Instruction(order int, opcode string, args []string) {
	if globalTracer == nil {
		return
	}
	globalTracer.instruction(order, opcode, args)
}

func (t *Tracer) instruction(order int, opcode string, args []string) {
	if !t.enabled || !t.matchesFilter(opcode) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if len(args) == 0 {
		fmt.Fprintf(t.writer, "TRACE %4d %s\n", order, opcode)
		return
	}
	fmt.Fprintf(t.writer, "TRACE %4d %s %s\n", order, opcode, strings.Join(args, " "))
}
