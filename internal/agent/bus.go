// Package agent holds the conversational side of encounter orchestration:
// the per-session trigger hook, the validation message bus, and the rules
// interpreter agent that re-validates specifications independently.
package agent

import (
	"context"

	entities "github.com/dmforge/encounter-api/internal/entities/encounter"
	"github.com/dmforge/encounter-api/internal/errors"
	encounterorc "github.com/dmforge/encounter-api/internal/orchestrators/encounter"
)

// DefaultBusBuffer is the validation task queue depth
const DefaultBusBuffer = 16

// validationTask pairs a request with its reply channel. The reply channel
// is buffered so a handler never blocks on a requester that gave up.
type validationTask struct {
	request *encounterorc.PeerValidationRequest
	reply   chan *validationReply
}

type validationReply struct {
	result *entities.ValidationResult
	err    error
}

// Bus carries validation tasks between the orchestrating agent and the
// rules interpreter over typed channels. The two sides share no validation
// state; everything a handler needs travels in the request.
type Bus struct {
	tasks chan *validationTask
}

// NewBus creates a validation bus with the given queue depth; 0 uses
// DefaultBusBuffer
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = DefaultBusBuffer
	}
	return &Bus{tasks: make(chan *validationTask, buffer)}
}

var _ encounterorc.PeerValidator = (*Bus)(nil)

// ValidateEncounter submits a validation task and waits for the reply,
// honoring the context deadline at both the send and the receive
func (b *Bus) ValidateEncounter(ctx context.Context, req *encounterorc.PeerValidationRequest) (*entities.ValidationResult, error) {
	if req == nil || req.Spec == nil {
		return nil, errors.InvalidArgument("validation request requires a specification")
	}

	task := &validationTask{
		request: req,
		reply:   make(chan *validationReply, 1),
	}

	select {
	case b.tasks <- task:
	case <-ctx.Done():
		return nil, errors.WrapWithCode(ctx.Err(), errors.CodeDeadlineExceeded, "validation request not accepted in time")
	}

	select {
	case reply := <-task.reply:
		if reply.err != nil {
			return nil, reply.err
		}
		return reply.result, nil
	case <-ctx.Done():
		return nil, errors.WrapWithCode(ctx.Err(), errors.CodeDeadlineExceeded, "peer validation timed out")
	}
}
