package domain

// Confirmer is the blocking, human-facing decision point required before a
// class of mutating action. It is always synchronous and single-threaded:
// concurrent workers rendezvous on it, they never race it.
type Confirmer interface {
	// Confirm presents the prompt and returns the operator's yes/no answer.
	Confirm(prompt string) (bool, error)
}
