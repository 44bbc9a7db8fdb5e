package retry

import "sync"

// AttemptStore tracks per-request retry attempt counts. It is owned by an
// Orchestrator instance and exposed only through these methods; callers
// never iterate it directly.
//
// Read-check-increment happens in one critical section so two callers
// racing on the same requestID cannot push a chain past its budget.
type AttemptStore struct {
	mu       sync.Mutex
	attempts map[string]int
}

// NewAttemptStore creates an empty store.
func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[string]int)}
}

// Begin returns the attempt count recorded so far for requestID and, when
// that count is below max, increments it. ok reports whether the caller may
// execute another attempt.
func (s *AttemptStore) Begin(requestID string, max int) (count int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	count = s.attempts[requestID]
	if count >= max {
		return count, false
	}
	s.attempts[requestID] = count + 1
	return count, true
}

// Remove deletes the entry for requestID. Called exactly when the request
// terminates, on success or exhaustion.
func (s *AttemptStore) Remove(requestID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attempts, requestID)
}

// Len returns the number of requests with an active retry chain.
func (s *AttemptStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.attempts)
}

// Reset drops all entries. Used by a full aggregator reset so no attempt
// count survives it.
func (s *AttemptStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attempts = make(map[string]int)
}
