package events

import (
	"log"
)

// LoggingObserver writes every event to the standard logger. Used in
// verbose mode for troubleshooting session runs.
type LoggingObserver struct {
	name    string
	verbose bool
}

// NewLoggingObserver creates a logging observer. With verbose set the
// payload is included, otherwise only the event type.
func NewLoggingObserver(verbose bool) *LoggingObserver {
	return &LoggingObserver{name: "LoggingObserver", verbose: verbose}
}

func (o *LoggingObserver) OnEvent(event Event) error {
	if o.verbose {
		log.Printf("[%s] %s %+v", o.name, event.Type, event.Data)
	} else {
		log.Printf("[%s] %s", o.name, event.Type)
	}
	return nil
}

func (o *LoggingObserver) Name() string { return o.name }

func (o *LoggingObserver) ShouldHandle(string) bool { return true }

// FuncObserver adapts a plain function into an Observer. The types
// slice filters which events reach the function; empty means all.
type FuncObserver struct {
	name  string
	types []string
	fn    func(Event) error
}

// NewFuncObserver wraps fn as an observer named name, handling only the
// listed event types.
func NewFuncObserver(name string, fn func(Event) error, types ...string) *FuncObserver {
	return &FuncObserver{name: name, types: types, fn: fn}
}

func (o *FuncObserver) OnEvent(event Event) error { return o.fn(event) }

func (o *FuncObserver) Name() string { return o.name }

func (o *FuncObserver) ShouldHandle(eventType string) bool {
	if len(o.types) == 0 {
		return true
	}
	for _, t := range o.types {
		if t == eventType {
			return true
		}
	}
	return false
}
