package usecases

import "context"

// TextGenerator defines the interface for the external generation endpoint.
// Enabled reports whether a credential is configured; the use cases guard on
// it and substitute visibly-mocked results instead of attempting a call.
type TextGenerator interface {
	Enabled() bool
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateJSON(ctx context.Context, prompt string) (string, error)
}

// generatorEnabled tolerates a nil generator so wiring can skip client
// construction entirely when no key is present.
func generatorEnabled(gen TextGenerator) bool {
	return gen != nil && gen.Enabled()
}
