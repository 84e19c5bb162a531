package storefront

// LoadState tracks whether a store has fetched its server copy yet.
type LoadState int

const (
	LoadStateUninitialized LoadState = iota
	LoadStateLoading
	LoadStateReady
)

func (s LoadState) String() string {
	switch s {
	case LoadStateLoading:
		return "loading"
	case LoadStateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Result reports the outcome of a store operation without panicking or
// returning an error the caller has to branch on. Message is only set on
// failure.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func ok() Result {
	return Result{Success: true}
}

func fail(message string) Result {
	return Result{Success: false, Message: message}
}
