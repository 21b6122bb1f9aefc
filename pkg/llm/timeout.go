package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// timeoutProvider bounds every call of the wrapped provider
type timeoutProvider struct {
	next    LLMProvider
	timeout time.Duration
}

// WithTimeout wraps p so each call is cancelled after d. A non-positive d returns p unchanged.
func WithTimeout(p LLMProvider, d time.Duration) LLMProvider {
	if d <= 0 {
		return p
	}
	return &timeoutProvider{next: p, timeout: d}
}

func (t *timeoutProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	out, err := t.next.Chat(ctx, history, options...)
	return out, t.mark(ctx, err)
}

func (t *timeoutProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	out, err := t.next.Generate(ctx, prompt, options...)
	return out, t.mark(ctx, err)
}

// mark tags err with ErrTimeout when this wrapper's deadline fired and the
// provider did not already say so.
func (t *timeoutProvider) mark(ctx context.Context, err error) error {
	if err == nil || errors.Is(err, ErrTimeout) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("no answer within %s: %w: %w", t.timeout, ErrTimeout, err)
	}
	return err
}
