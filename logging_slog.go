package cimba

import (
	"log/slog"

	"github.com/joeycumines/logiface"
	islog "github.com/joeycumines/logiface-slog"
)

// NewSlogLogger builds a *logiface.Logger[*islog.Event] that writes through
// handler, for callers who want Cimba's log events to flow into the standard
// library's log/slog ecosystem (JSON, a custom handler, an OTel bridge, ...)
// instead of the text line format textwriter.go produces. This is the
// alternate logiface-slog backend that SPEC_FULL.md's ambient-stack section
// names, usable without touching the kernel.
//
// The returned logger is a plain logiface.Logger[*islog.Event]; it is not
// plumbed through Simulation's own *Logger (which is fixed to the text
// format textwriter.go produces). Callers
// wanting slog output drive this logger directly from their process bodies,
// same as any standalone logiface consumer would.
func NewSlogLogger(handler slog.Handler, opts ...logiface.Option[*islog.Event]) *logiface.Logger[*islog.Event] {
	all := append([]logiface.Option[*islog.Event]{islog.WithSlogHandler(handler)}, opts...)
	return logiface.New[*islog.Event](all...)
}
