package manager

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/requiem-ai/modelhub/llm"
	"github.com/rs/zerolog/log"
)

// Options control how a prompt round touches an instance's context.
// The zero value sends the prompt as "user" without recording anything.
type Options struct {
	// Role tags the prompt message; "user" when empty.
	Role string
	// SaveContext appends the round to the live context on success.
	SaveContext bool
	// AppendPrompt includes the prompt in the context sent to the backend.
	AppendPrompt bool
}

// Result is one target's outcome in a fan-out round. Exactly one of Text
// and Err is meaningful.
type Result struct {
	Text string
	Err  error
}

// Dispatch sends prompt to a single instance and returns the backend's
// reply. The backend sees a working copy of the instance's context, with
// the prompt appended to the copy when opts.AppendPrompt is set. Only a
// successful round with opts.SaveContext set mutates the live context: the
// prompt (when it was part of the working copy) and then the reply are
// appended in one step. A backend failure leaves the live context alone.
func (m *Manager) Dispatch(ctx context.Context, id, prompt string, opts Options) (string, error) {
	inst, err := m.resolve(id)
	if err != nil {
		return "", err
	}

	role := opts.Role
	if role == "" {
		role = llm.RoleUser
	}

	working := inst.snapshot()
	if opts.AppendPrompt {
		working = append(working, llm.Message{Role: role, Content: prompt})
	}

	reply, err := inst.backend.Generate(ctx, working)
	if err != nil {
		var bErr *llm.BackendError
		if !errors.As(err, &bErr) {
			err = &llm.BackendError{Backend: id, Err: err}
		}
		log.Debug().Str("instance", id).Err(err).Msg("dispatch failed")
		return "", err
	}

	if opts.SaveContext {
		if opts.AppendPrompt {
			inst.append(
				llm.Message{Role: role, Content: prompt},
				llm.Message{Role: llm.RoleAssistant, Content: reply},
			)
		} else {
			inst.append(llm.Message{Role: llm.RoleAssistant, Content: reply})
		}
	}

	return reply, nil
}

// DispatchAll sends prompt to every listed instance concurrently and waits
// for all of them to settle. Each target succeeds or fails on its own; a
// failure lands in that id's Result instead of aborting its siblings.
// Duplicate ids collapse to a single round-trip, keyed once in the result.
func (m *Manager) DispatchAll(ctx context.Context, ids []string, prompt string, opts Options) map[string]Result {
	round := uuid.NewString()
	log.Debug().Str("round", round).Int("targets", len(ids)).Msg("fan-out start")

	results := make(map[string]Result, len(ids))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for _, id := range ids {
		mu.Lock()
		_, dup := results[id]
		if !dup {
			results[id] = Result{}
		}
		mu.Unlock()
		if dup {
			continue
		}

		wg.Add(1)
		go func(id string) {
			defer wg.Done()

			text, err := m.Dispatch(ctx, id, prompt, opts)

			mu.Lock()
			results[id] = Result{Text: text, Err: err}
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	log.Debug().Str("round", round).Int("targets", len(results)).Msg("fan-out settled")
	return results
}
