package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/folio/internal/contract"
	"github.com/alexanderramin/folio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type capturingObserver struct {
	events []UseCaseEvent
}

func (o *capturingObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.events = append(o.events, e)
}

func TestInstrument_SpansCarryOutcome(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	obs := &capturingObserver{}
	j := newMemoryJournal(t, WithTracer(tp.Tracer("folio-test")), WithObserver(obs))

	sub := j.submit(t, domain.SecurityOpen)
	_, err := j.wf.Transition(context.Background(), contract.TransitionRequest{
		ActorID: j.rev1.ID, SubmissionID: sub.ID, Action: domain.ActionDeskReject,
	})
	require.Error(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "service.create_submission", spans[0].Name())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)

	denied := spans[1]
	assert.Equal(t, "service.transition", denied.Name())
	assert.Equal(t, codes.Error, denied.Status().Code)
	assert.Contains(t, denied.Attributes(), attribute.String("folio.error_kind", "UNAUTHORIZED"))
	assert.Contains(t, denied.Attributes(), attribute.String("folio.action", "desk_reject"))

	require.Len(t, obs.events, 2)
	assert.True(t, obs.events[0].Success)
	assert.False(t, obs.events[1].Success)
	assert.Equal(t, "transition", obs.events[1].Name)
}
