// Package generation implements the flashcard generation pipeline: it picks a
// prompt language for the source text, instructs an external language model
// through a ModelInvoker, recovers flashcard proposals from the model's
// loosely structured reply, and keeps an auditable record of every attempt.
//
// Provider-specific invokers live under internal/platform; this package only
// defines the contract they satisfy and a deterministic MockInvoker used for
// development and tests.
package generation
