package service

import (
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/alexanderramin/folio/internal/service"

type options struct {
	now      func() time.Time
	observer UseCaseObserver
	tracer   trace.Tracer
	logger   *slog.Logger
	sinks    SinkFactory
	decorate func(Notifier) Notifier
}

// Option customises a service at construction.
type Option func(*options)

// WithClock replaces time.Now as the source of "now" for requests that do not carry one.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithObserver(obs UseCaseObserver) Option {
	return func(o *options) { o.observer = obs }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSinks replaces the SQLite audit log and notification outbox.
func WithSinks(f SinkFactory) Option {
	return func(o *options) { o.sinks = f }
}

// WithNotifierDecorator wraps every transaction's notifier, e.g. with LoggingNotifier.
func WithNotifierDecorator(wrap func(Notifier) Notifier) Option {
	return func(o *options) { o.decorate = wrap }
}

func buildOptions(opts []Option) options {
	o := options{
		now:      time.Now,
		observer: NoopUseCaseObserver{},
		tracer:   otel.Tracer(tracerName),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		sinks:    SQLiteSinks,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.observer == nil {
		o.observer = NoopUseCaseObserver{}
	}
	return o
}
