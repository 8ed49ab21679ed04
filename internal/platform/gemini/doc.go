// Package gemini provides an implementation of the generation.ModelInvoker
// interface that uses Google's Gemini API.
//
// This package is an infrastructure adapter, connecting the generation
// pipeline to Google's external Gemini service through the
// google.golang.org/genai client library. It sends the system prompt as a
// system instruction, requests application/json output constrained by a
// response schema, and translates API failures into the generation
// package's error taxonomy.
package gemini
