package converter

import (
	"errors"

	"github.com/ginjaninja78/edifact-orders/internal/config"
	"github.com/ginjaninja78/edifact-orders/internal/ediwriter"
	"github.com/ginjaninja78/edifact-orders/internal/types"
	"github.com/ginjaninja78/edifact-orders/internal/validation"
)

// Hook and Event are re-exported so callers of Generate need only this
// package.
type (
	Hook  = types.Hook
	Event = types.Event
)

// Sink persists a generated message. Implementations must not modify msg.
type Sink interface {
	WriteMessage(msg *ediwriter.Message) error
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(msg *ediwriter.Message) error

// WriteMessage calls f(msg).
func (f SinkFunc) WriteMessage(msg *ediwriter.Message) error {
	return f(msg)
}

// Option configures a Generate call.
type Option func(*options)

type options struct {
	hook Hook
	sink Sink
}

// WithHook delivers skip and progress events to hook.
func WithHook(hook Hook) Option {
	return func(o *options) { o.hook = hook }
}

// WithSink writes the generated message to sink before Generate returns.
func WithSink(sink Sink) Option {
	return func(o *options) { o.sink = sink }
}

// Generate validates raw and produces its ORDERS message under cfg.
//
// Validation failures return a nil message and the typed validation error.
// When a sink is configured and fails, the message is still returned together
// with a *types.IOError so the caller can retry persistence.
func Generate(raw *types.RawOrder, cfg config.EdifactConfig, opts ...Option) (*ediwriter.Message, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	order, err := validation.NewValidator(cfg, o.hook).Validate(raw)
	if err != nil {
		return nil, err
	}

	msg := ediwriter.Generate(order, cfg)
	o.hook.Emit(types.Event{
		Kind:       types.EventGenerated,
		MessageRef: msg.MessageRef,
		Count:      msg.SegmentCount,
	})

	if o.sink == nil {
		return msg, nil
	}

	if err := o.sink.WriteMessage(msg); err != nil {
		var ioErr *types.IOError
		if !errors.As(err, &ioErr) {
			ioErr = &types.IOError{Err: err}
		}
		o.hook.Emit(types.Event{
			Kind:       types.EventWriteFailed,
			MessageRef: msg.MessageRef,
			Reason:     ioErr.Error(),
		})
		return msg, ioErr
	}

	return msg, nil
}
