package executor

import (
	"sync"
	"time"
)

// RecordingObserver is an Observer that remembers what it was told.
// It is meant for tests of packages that wire an Executor.
type RecordingObserver struct {
	mu       sync.Mutex
	runs     []RecordedRun
	prompted map[string]int
}

// RecordedRun is one RunFinished notification.
type RecordedRun struct {
	Language string
	Status   string
	Duration time.Duration
}

func (r *RecordingObserver) RunFinished(language, status string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runs = append(r.runs, RecordedRun{Language: language, Status: status, Duration: d})
}

func (r *RecordingObserver) PromptIssued(language string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.prompted == nil {
		r.prompted = make(map[string]int)
	}
	r.prompted[language]++
}

// Runs returns the finished runs in notification order.
func (r *RecordingObserver) Runs() []RecordedRun {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RecordedRun, len(r.runs))
	copy(out, r.runs)
	return out
}

// Prompts returns how many prompts were issued for language.
func (r *RecordingObserver) Prompts(language string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prompted[language]
}
