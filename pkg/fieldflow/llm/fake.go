package llm

import (
	"context"
	"sync"
)

// Fake is a scripted Client for tests. It replays configured responses in
// order (cycling when exhausted) and records every request it receives.
//
// Fake is safe for concurrent use.
type Fake struct {
	mu        sync.Mutex
	responses []string
	err       error
	calls     []GenerateRequest
	next      int
}

// Compile-time interface check.
var _ Client = (*Fake)(nil)

// NewFake creates a fake client that always returns text.
func NewFake(text string) *Fake {
	return &Fake{responses: []string{text}}
}

// WithResponses replaces the scripted responses. Calls cycle through them.
func (f *Fake) WithResponses(responses ...string) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses = responses
	f.next = 0
	return f
}

// WithError makes every call fail with err.
func (f *Fake) WithError(err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
	return f
}

// Generate implements Client.
func (f *Fake) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewError("generate", err, false)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls = append(f.calls, req)

	if f.err != nil {
		return nil, f.err
	}

	if len(f.responses) == 0 {
		return &GenerateResponse{FinishReason: "stop"}, nil
	}

	text := f.responses[f.next%len(f.responses)]
	f.next++

	return &GenerateResponse{Text: text, FinishReason: "stop"}, nil
}

// CallCount returns the number of Generate calls received.
func (f *Fake) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// Calls returns a copy of the recorded requests.
func (f *Fake) Calls() []GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]GenerateRequest, len(f.calls))
	copy(out, f.calls)
	return out
}

// LastCall returns the most recent request, or a zero request if none.
func (f *Fake) LastCall() GenerateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return GenerateRequest{}
	}
	return f.calls[len(f.calls)-1]
}

// Reset clears recorded calls and rewinds the script.
func (f *Fake) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
	f.next = 0
}
