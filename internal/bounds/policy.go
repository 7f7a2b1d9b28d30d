package bounds

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"labbook/internal/faults"
	"labbook/internal/logging"
	"labbook/internal/textutil"
)

// suggestionThreshold is the minimum similarity for a "did you mean" hint.
const suggestionThreshold = 0.5

// Query describes an unregistered categorical value awaiting a decision.
type Query struct {
	Attribute  string
	Value      string
	Registered []string
}

// Suggestion returns the registered category closest to the queried value.
func (q Query) Suggestion() (string, bool) {
	best, score, ok := textutil.Closest(q.Value, q.Registered)
	if !ok || score < suggestionThreshold {
		return "", false
	}
	return best, true
}

// UnknownValuePolicy decides whether an unregistered category should be
// added to the registry. Returning false rejects the value.
type UnknownValuePolicy interface {
	Decide(ctx context.Context, q Query) (bool, error)
}

// PolicyFunc adapts a function to UnknownValuePolicy.
type PolicyFunc func(ctx context.Context, q Query) (bool, error)

func (f PolicyFunc) Decide(ctx context.Context, q Query) (bool, error) { return f(ctx, q) }

// Reject refuses every unknown value.
func Reject() UnknownValuePolicy {
	return PolicyFunc(func(context.Context, Query) (bool, error) { return false, nil })
}

// Accept registers every unknown value.
func Accept() UnknownValuePolicy {
	return PolicyFunc(func(context.Context, Query) (bool, error) { return true, nil })
}

type promptResult struct {
	line string
	err  error
}

type prompt struct {
	mu      sync.Mutex
	in      *bufio.Reader
	out     io.Writer
	pending chan promptResult
}

// Prompt asks on out and reads a y/n answer from in, one line per query.
// Any other answer fails with a validation error. Answers are compared
// without regard to case.
func Prompt(in io.Reader, out io.Writer) UnknownValuePolicy {
	return &prompt{in: bufio.NewReader(in), out: out}
}

func (p *prompt) Decide(ctx context.Context, q Query) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return false, err
	}
	question := fmt.Sprintf("%s does not exist in category %s.", q.Value, q.Attribute)
	if hint, ok := q.Suggestion(); ok {
		question += fmt.Sprintf(" Did you mean %q?", hint)
	}
	if _, err := fmt.Fprintf(p.out, "%s Would you like to add it? (y/n) ", question); err != nil {
		return false, fmt.Errorf("write prompt: %w", err)
	}

	// A read abandoned by a cancelled context stays pending and answers the
	// next question, so two reads never share the buffered reader.
	results := p.pending
	if results == nil {
		results = make(chan promptResult, 1)
		go func() {
			line, err := p.in.ReadString('\n')
			results <- promptResult{line: line, err: err}
		}()
	}

	var res promptResult
	select {
	case <-ctx.Done():
		p.pending = results
		return false, ctx.Err()
	case res = <-results:
		p.pending = nil
	}
	if res.err != nil && (res.err != io.EOF || strings.TrimSpace(res.line) == "") {
		return false, faults.Wrap(faults.ErrValidation, component, "prompt", "no answer for "+q.Attribute, res.err)
	}

	switch answer := textutil.Fold(res.line); answer {
	case "y", "yes":
		fmt.Fprintf(p.out, "Added %s to category %s.\n", q.Value, q.Attribute)
		return true, nil
	case "n", "no":
		fmt.Fprintf(p.out, "Please choose a different value for %s.\n", q.Attribute)
		return false, nil
	default:
		return false, faults.Wrap(faults.ErrValidation, component, "prompt",
			fmt.Sprintf("invalid response %q, please answer y/n", strings.TrimSpace(res.line)), nil)
	}
}

// PolicyByName returns the policy configured by name. "prompt" degrades to
// reject when in is not a terminal, since nobody could answer.
func PolicyByName(name string, in *os.File, out io.Writer, logger *slog.Logger) (UnknownValuePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "reject":
		return Reject(), nil
	case "accept":
		return Accept(), nil
	case "prompt":
		if in == nil || !(isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd())) {
			logging.WarnWithContext(logging.NewComponentLogger(logger, component),
				"interactive bounds prompt unavailable", "bounds_prompt_fallback",
				logging.String(logging.FieldPolicy, "reject"),
				logging.String(logging.FieldErrorHint, "set bounds.unknown_value_policy to accept or reject for unattended runs"),
				logging.String(logging.FieldImpact, "unknown categorical values will be rejected"))
			return Reject(), nil
		}
		return Prompt(in, out), nil
	default:
		return nil, faults.Wrap(faults.ErrConfiguration, component, "policy", fmt.Sprintf("unknown policy %q", name), nil)
	}
}
