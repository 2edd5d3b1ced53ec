package cli

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// sceneProgressReporter draws a one-line spinner on an interactive stderr.
// Update is called from scene workers concurrently.
type sceneProgressReporter struct {
	mu      sync.Mutex
	enabled bool
	label   string
	start   time.Time
	spinner int
	lastLen int
}

func newSceneProgressReporter(label string, asJSON bool) *sceneProgressReporter {
	stat, err := os.Stderr.Stat()
	enabled := err == nil && (stat.Mode()&os.ModeCharDevice) != 0 && !asJSON
	return &sceneProgressReporter{
		enabled: enabled,
		label:   label,
		start:   time.Now(),
	}
}

func (r *sceneProgressReporter) Update(file string, count, total int) {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	file = strings.TrimSpace(file)
	if len(file) > 88 {
		file = "..." + file[len(file)-85:]
	}

	status := fmt.Sprintf("%s %s %d/%d %s", frame, r.label, count, total, file)
	r.printStatus(status)
}

func (r *sceneProgressReporter) Done(count int) {
	if !r.enabled {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := time.Since(r.start).Round(time.Millisecond)
	r.printStatus(fmt.Sprintf("%s complete (%d scenes in %s)", r.label, count, elapsed))
	fmt.Fprintln(os.Stderr)
}

func (r *sceneProgressReporter) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(os.Stderr, "\r%s", status)
}
