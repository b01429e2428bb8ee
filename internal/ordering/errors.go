package ordering

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrorKind classifies move ordering failures.
type ErrorKind uint8

const (
	KindInvalidMove ErrorKind = iota
	KindConfiguration
	KindMemory
	KindCache
	KindSEE
	KindHash
	KindStatistics
	KindOperation
)

var kindNames = [...]string{
	"invalid move", "configuration", "memory", "cache", "SEE", "hash", "statistics", "operation",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Sentinels for errors.Is matching by kind.
var (
	ErrInvalidMove   = &Error{Kind: KindInvalidMove}
	ErrConfiguration = &Error{Kind: KindConfiguration}
	ErrMemory        = &Error{Kind: KindMemory}
	ErrCache         = &Error{Kind: KindCache}
	ErrSEE           = &Error{Kind: KindSEE}
	ErrHash          = &Error{Kind: KindHash}
	ErrStatistics    = &Error{Kind: KindStatistics}
	ErrOperation     = &Error{Kind: KindOperation}
)

// Error is a move ordering failure of a given kind.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func newError(kind ErrorKind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	sb.WriteString(" error")
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// ConfigError lists every violation found while validating a Config.
type ConfigError struct {
	Violations []string
}

func (e *ConfigError) Error() string {
	return "invalid configuration: " + strings.Join(e.Violations, "; ")
}

// Is makes a ConfigError match ErrConfiguration.
func (e *ConfigError) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == KindConfiguration
}

// Severity ranks logged errors for the degradation policy.
type Severity uint8

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	}
	return "unknown"
}

func (s Severity) level() zerolog.Level {
	switch s {
	case SeverityLow:
		return zerolog.DebugLevel
	case SeverityMedium:
		return zerolog.InfoLevel
	case SeverityHigh:
		return zerolog.WarnLevel
	}
	return zerolog.ErrorLevel
}

// ErrorEntry is one record in the error log.
type ErrorEntry struct {
	Err      error
	Severity Severity
	Context  string
	Time     time.Time
}

// ErrorLog is a bounded ring buffer of recent errors, oldest overwritten first.
type ErrorLog struct {
	entries []ErrorEntry
	next    int
	full    bool
}

// NewErrorLog creates an error log holding at most size entries.
func NewErrorLog(size int) *ErrorLog {
	if size < 1 {
		size = 1
	}
	return &ErrorLog{entries: make([]ErrorEntry, size)}
}

// Record appends an entry, overwriting the oldest when full.
func (l *ErrorLog) Record(e ErrorEntry) {
	l.entries[l.next] = e
	l.next++
	if l.next == len(l.entries) {
		l.next = 0
		l.full = true
	}
}

// Len returns the number of stored entries.
func (l *ErrorLog) Len() int {
	if l.full {
		return len(l.entries)
	}
	return l.next
}

// Recent returns up to n entries, most recent first.
func (l *ErrorLog) Recent(n int) []ErrorEntry {
	if n > l.Len() {
		n = l.Len()
	}
	out := make([]ErrorEntry, 0, n)
	idx := l.next
	for i := 0; i < n; i++ {
		idx--
		if idx < 0 {
			idx = len(l.entries) - 1
		}
		out = append(out, l.entries[idx])
	}
	return out
}

// Clear drops every entry.
func (l *ErrorLog) Clear() {
	clear(l.entries)
	l.next = 0
	l.full = false
}

// unstableWindow is how many recent entries IsUnstable inspects.
const unstableWindow = 10

// IsUnstable reports whether the last 10 entries hold a critical error or at
// least three high severity ones.
func (l *ErrorLog) IsUnstable() bool {
	high := 0
	for _, e := range l.Recent(unstableWindow) {
		switch e.Severity {
		case SeverityCritical:
			return true
		case SeverityHigh:
			high++
		}
	}
	return high >= 3
}

// kindOf extracts the ErrorKind of err, defaulting to KindOperation.
func kindOf(err error) ErrorKind {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.Kind
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return KindConfiguration
	}
	return KindOperation
}
