package ai

const (
	msgTaggingFailed = "Failed to generate summary and tags"
	msgAnswerFailed  = "Failed to generate answer"
)

// GenerationError reports that the gateway call itself failed (network, auth, quota).
// Error returns a fixed message meant for clients; the cause is kept for logs and errors.Is.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	return e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
