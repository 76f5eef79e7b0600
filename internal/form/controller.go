package form

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"visitor-console/internal/model"
)

// ErrSubmitted is returned when a finished form is advanced again.
var ErrSubmitted = errors.New("form already submitted")

// Submitter delivers a finalized payload to the remote API.
type Submitter interface {
	SubmitEquipment(ctx context.Context, payload Payload) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, payload Payload) error

func (f SubmitterFunc) SubmitEquipment(ctx context.Context, payload Payload) error {
	return f(ctx, payload)
}

// State is a snapshot of a controller.
type State struct {
	Stage     int              `json:"stage"`
	StageName string           `json:"stage_name"`
	Stages    int              `json:"stages"`
	Last      bool             `json:"last"`
	Submitted bool             `json:"submitted"`
	Values    model.FormRecord `json:"values"`
	Schema    Schema           `json:"schema"`
	Payload   Payload          `json:"payload,omitempty"`
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock used to stamp the payload.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// Controller walks a Definition stage by stage. It is safe for concurrent use;
// calls are serialized.
type Controller struct {
	mu sync.Mutex

	def    *Definition
	submit Submitter
	now    func() time.Time

	stage     int
	acc       model.FormRecord
	draft     model.FormRecord
	submitted bool
	payload   Payload
}

// NewController starts a form at stage 0 with an empty accumulator.
func NewController(def *Definition, submit Submitter, opts ...Option) *Controller {
	c := &Controller{
		def:    def,
		submit: submit,
		now:    time.Now,
		acc:    make(model.FormRecord),
		draft:  make(model.FormRecord),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

// Accumulated returns a copy of everything merged so far.
func (c *Controller) Accumulated() model.FormRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acc.Clone()
}

// Submit validates input against the current stage and advances on success.
// Validation failures come back as FieldErrors with the stage unchanged.
func (c *Controller) Submit(ctx context.Context, input model.FormRecord) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitted {
		return c.stateLocked(), ErrSubmitted
	}

	c.draft = input.Clone()
	schema, err := c.def.ActiveSchema(c.stage, c.acc.Merge(input))
	if err != nil {
		return c.stateLocked(), err
	}
	validated, fieldErrs := ValidateStage(schema, input)
	if fieldErrs != nil {
		return c.stateLocked(), fieldErrs
	}
	return c.advanceLocked(ctx, validated)
}

// Advance merges already validated fields into the accumulator, later values
// overwriting earlier ones, and moves to the next stage. On the last stage it
// finalizes instead.
func (c *Controller) Advance(ctx context.Context, validated model.FormRecord) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitted {
		return c.stateLocked(), ErrSubmitted
	}
	return c.advanceLocked(ctx, validated)
}

func (c *Controller) advanceLocked(ctx context.Context, validated model.FormRecord) (State, error) {
	c.acc = c.acc.Merge(validated)

	if c.stage < c.def.Len()-1 {
		c.stage++
		c.draft = c.acc.Clone()
		return c.stateLocked(), nil
	}

	if _, err := c.finalizeLocked(ctx); err != nil {
		return c.stateLocked(), err
	}
	return c.stateLocked(), nil
}

// Back moves to the previous stage. The accumulator is kept; the in-progress
// draft is reset from it.
func (c *Controller) Back() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.submitted && c.stage > 0 {
		c.stage--
	}
	c.draft = c.acc.Clone()
	return c.stateLocked()
}

// Finalize builds the payload from the accumulator and submits it once. A
// failed submit leaves the controller on the last stage with its data intact
// so the caller can retry.
func (c *Controller) Finalize(ctx context.Context) (Payload, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitted {
		return c.payload, ErrSubmitted
	}
	return c.finalizeLocked(ctx)
}

func (c *Controller) finalizeLocked(ctx context.Context) (Payload, error) {
	payload := BuildPayload(c.acc, c.now())
	if err := c.submit.SubmitEquipment(ctx, payload); err != nil {
		return nil, fmt.Errorf("failed to submit equipment log: %w", err)
	}
	c.submitted = true
	c.payload = payload
	return payload, nil
}

func (c *Controller) stateLocked() State {
	st := State{
		Stage:     c.stage,
		StageName: c.def.StageName(c.stage),
		Stages:    c.def.Len(),
		Last:      c.stage == c.def.Len()-1,
		Submitted: c.submitted,
		Values:    c.acc.Merge(c.draft),
		Payload:   c.payload,
	}
	if schema, err := c.def.ActiveSchema(c.stage, st.Values); err == nil {
		st.Schema = schema
	}
	return st
}
