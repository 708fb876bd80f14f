// Package wizard interprets declarative multi-step dialogues. A wizard is
// data: an ordered list of steps, each with a prompt, a validator and an
// answer key. One generic engine advances every wizard.
package wizard

import (
	"context"
	"fmt"

	"tourney-bot/internal/session"
)

// CancelCommand is recognized at any step and aborts the wizard with no
// side effects.
const CancelCommand = "/cancel"

// Input is one user answer: free text, an image reference, or both.
type Input struct {
	Text     string
	ImageRef string
}

// Validator checks an answer and returns the value to store. A non-nil
// *ValidationError means the step is re-prompted and nothing advances.
type Validator func(in Input) (any, *ValidationError)

type Step struct {
	// Key is the answer map key the validated value is stored under.
	Key string
	// Prompt renders the question; it may read earlier answers.
	Prompt func(answers map[string]any) string
	// Options are suggested reply buttons, row by row.
	Options [][]string
	Validate Validator
	// OnAnswer overrides the default "store under Key" behavior, for
	// steps that accumulate into a list or keep counters.
	OnAnswer func(answers map[string]any, value any)
	// Next overrides linear progression. It returns the index of the
	// next step and whether the wizard is complete.
	Next func(answers map[string]any, current int) (int, bool)
}

type Wizard struct {
	ID    string
	Steps []Step
	// OnComplete commits the collected answers and returns the reply
	// shown to the user. The session is cleared either way.
	OnComplete func(ctx context.Context, userID int64, answers map[string]any) (string, error)
}

// Result is what the dispatcher renders back to the user.
type Result struct {
	Reply   string
	Buttons [][]string
	Done    bool
}

type Engine struct {
	sessions *session.Manager
	wizards  map[string]*Wizard
}

func NewEngine(sessions *session.Manager) *Engine {
	return &Engine{sessions: sessions, wizards: make(map[string]*Wizard)}
}

func (e *Engine) Register(w *Wizard) {
	e.wizards[w.ID] = w
}

// Active reports whether the user has a dialogue in progress.
func (e *Engine) Active(userID int64) bool {
	_, _, ok := e.sessions.Active(userID)
	return ok
}

// Start begins a wizard for the user, discarding any prior session. Seed
// values are preloaded into the answer map (e.g. the target tournament id
// for registration, or a freshly minted idempotency token).
func (e *Engine) Start(userID int64, wizardID string, seed map[string]any) (Result, error) {
	w, ok := e.wizards[wizardID]
	if !ok {
		return Result{}, fmt.Errorf("unknown wizard %q", wizardID)
	}
	e.sessions.Begin(userID, wizardID)
	for k, v := range seed {
		e.sessions.Put(userID, k, v)
	}
	first := w.Steps[0]
	return Result{Reply: first.Prompt(e.sessions.Snapshot(userID)), Buttons: first.Options}, nil
}

// Cancel clears the user's session. It reports whether one existed.
func (e *Engine) Cancel(userID int64) bool {
	if _, _, ok := e.sessions.Active(userID); !ok {
		return false
	}
	e.sessions.Clear(userID)
	return true
}

// Handle advances the user's active wizard with one answer. Invalid input
// re-prompts the same step; the cancel command aborts; completing the last
// step invokes OnComplete and clears the session.
func (e *Engine) Handle(ctx context.Context, userID int64, in Input) (Result, error) {
	wizardID, stepIdx, ok := e.sessions.Active(userID)
	if !ok {
		return Result{}, fmt.Errorf("no active session for user %d", userID)
	}
	w := e.wizards[wizardID]
	if w == nil || stepIdx >= len(w.Steps) {
		e.sessions.Clear(userID)
		return Result{}, fmt.Errorf("corrupt session for user %d (wizard %q step %d)", userID, wizardID, stepIdx)
	}

	if in.Text == CancelCommand {
		e.sessions.Clear(userID)
		return Result{Reply: "Cancelled.", Done: true}, nil
	}

	step := w.Steps[stepIdx]
	value, verr := step.Validate(in)
	if verr != nil {
		return Result{Reply: verr.Reason, Buttons: step.Options}, nil
	}

	if step.OnAnswer != nil {
		answers := e.sessions.Snapshot(userID)
		step.OnAnswer(answers, value)
		for k, v := range answers {
			e.sessions.Put(userID, k, v)
		}
	} else {
		e.sessions.Put(userID, step.Key, value)
	}

	answers := e.sessions.Snapshot(userID)
	next, done := stepIdx+1, false
	if step.Next != nil {
		next, done = step.Next(answers, stepIdx)
	}
	if !done && next >= len(w.Steps) {
		done = true
	}

	if done {
		reply, err := w.OnComplete(ctx, userID, answers)
		e.sessions.Clear(userID)
		if err != nil {
			return Result{Done: true}, err
		}
		return Result{Reply: reply, Done: true}, nil
	}

	e.sessions.SetStep(userID, next)
	nextStep := w.Steps[next]
	return Result{Reply: nextStep.Prompt(answers), Buttons: nextStep.Options}, nil
}
