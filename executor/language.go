package executor

// Language defines the interface for a playground language.
// Implement this interface to add support for new languages.
type Language interface {
	// Name returns the unique tag for this language (e.g., "python", "cpp").
	// Tags are what share links and API requests carry.
	Name() string

	// DisplayName returns the label shown in the language selector.
	DisplayName() string

	// Extension returns the file extension used for downloads, without the dot.
	Extension() string

	// Sample returns the starter snippet loaded when the language is selected.
	Sample() string

	// Dialect returns the pattern rules the mock interpreter applies to code
	// written in this language.
	Dialect() Dialect
}
