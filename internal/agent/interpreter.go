package agent

import (
	"context"
	"log/slog"

	"github.com/dmforge/encounter-api/internal/errors"
	"github.com/dmforge/encounter-api/internal/rules"
	"github.com/dmforge/encounter-api/internal/ruleset"
)

// InterpreterConfig holds the dependencies for the rules interpreter agent
type InterpreterConfig struct {
	Bus    *Bus
	Loader ruleset.Loader
}

// Validate checks that all required dependencies are provided
func (c *InterpreterConfig) Validate() error {
	if c.Bus == nil {
		return errors.InvalidArgument("bus is required")
	}
	if c.Loader == nil {
		return errors.InvalidArgument("ruleset loader is required")
	}
	return nil
}

// Interpreter is the peer validation agent. It consumes tasks from the bus
// and re-validates each specification with its own catalog when the request
// does not carry one, so its verdicts never depend on the requester's
// memory.
type Interpreter struct {
	bus    *Bus
	loader ruleset.Loader
}

// NewInterpreter creates a new rules interpreter agent
func NewInterpreter(cfg *InterpreterConfig) (*Interpreter, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Interpreter{bus: cfg.Bus, loader: cfg.Loader}, nil
}

// Run consumes validation tasks until the context is canceled
func (i *Interpreter) Run(ctx context.Context) error {
	slog.Info("rules interpreter agent running")
	for {
		select {
		case <-ctx.Done():
			slog.Info("rules interpreter agent stopping", "reason", ctx.Err())
			return ctx.Err()
		case task := <-i.bus.tasks:
			i.handle(task)
		}
	}
}

func (i *Interpreter) handle(task *validationTask) {
	req := task.request

	monsters := req.Monsters
	if len(monsters) == 0 {
		loaded, err := i.loader.LoadMonsters()
		if err != nil {
			slog.Error("interpreter could not load its catalog",
				"encounter_id", req.Spec.ID,
				"error", err)
			task.reply <- &validationReply{err: err}
			return
		}
		monsters = loaded
	}

	result := rules.Validate(req.Spec, monsters, req.Party)

	slog.Debug("interpreter validated specification",
		"encounter_id", req.Spec.ID,
		"ok", result.OK,
		"issues", len(result.Issues))

	task.reply <- &validationReply{result: result}
}
