package project

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// TimingEvent is one line of the timing JSONL file.
type TimingEvent struct {
	Stage      string  `json:"stage"`
	Kind       string  `json:"kind"`
	File       string  `json:"file,omitempty"`
	Status     string  `json:"status,omitempty"`
	StartMS    float64 `json:"start_ms"`
	DurationMS float64 `json:"duration_ms"`
}

// timingRecorder appends events to a JSONL file. A nil or disabled
// recorder ignores every call.
type timingRecorder struct {
	start  time.Time
	mu     sync.Mutex
	events []TimingEvent
	file   *os.File
	enc    *json.Encoder
}

func newTimingRecorder(start time.Time, path string) (*timingRecorder, error) {
	tr := &timingRecorder{start: start}
	if path == "" {
		return tr, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return tr, err
	}
	tr.file = f
	tr.enc = json.NewEncoder(f)
	return tr, nil
}

func (tr *timingRecorder) Close() error {
	if tr == nil || tr.file == nil {
		return nil
	}
	return tr.file.Close()
}

func (tr *timingRecorder) record(stage, kind, file, status string, start time.Time) {
	if tr == nil {
		return
	}
	event := TimingEvent{
		Stage:      stage,
		Kind:       kind,
		File:       file,
		Status:     status,
		StartMS:    durationToMS(start.Sub(tr.start)),
		DurationMS: durationToMS(time.Since(start)),
	}
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.events = append(tr.events, event)
	if tr.enc != nil {
		_ = tr.enc.Encode(event)
	}
}

// Stage records a pipeline stage that began at start and ends now.
func (tr *timingRecorder) Stage(stage string, start time.Time) {
	tr.record(stage, "stage", "", "", start)
}

// File records the work on one file within stage.
func (tr *timingRecorder) File(stage, file, status string, start time.Time) {
	tr.record(stage, "file", file, status, start)
}

// Events returns a copy of everything recorded so far.
func (tr *timingRecorder) Events() []TimingEvent {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]TimingEvent(nil), tr.events...)
}

func durationToMS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000_000.0
}
