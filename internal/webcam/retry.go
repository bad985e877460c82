package webcam

// RetryState counts failed loads of the active camera. Transitions return a
// new value and never mutate the receiver.
type RetryState struct {
	AttemptCount int `json:"attemptCount"`
	MaxAttempts  int `json:"maxAttempts"`
}

// NewRetryState starts at zero attempts with the default cap.
func NewRetryState() RetryState {
	return RetryState{MaxAttempts: MaxAttempts}
}

// OnLoadFailure counts one more failure. At the cap it is a no-op.
func (s RetryState) OnLoadFailure() RetryState {
	if s.Exhausted() {
		return s
	}
	s.AttemptCount++
	return s
}

// Reset returns to zero attempts, keeping the cap.
func (s RetryState) Reset() RetryState {
	s.AttemptCount = 0
	return s
}

// Exhausted reports whether no further retries will be made.
func (s RetryState) Exhausted() bool {
	return s.AttemptCount >= s.MaxAttempts
}
