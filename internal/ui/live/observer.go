package live

import (
	"io"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"edusim/internal/pipeline"
)

// Controller runs the live UI and implements pipeline.RunObserver.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
}

// Start launches a live UI controller that writes to stdout.
func Start(stdout io.Writer, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	model := NewModel(events, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller := &Controller{
		events:  events,
		program: program,
		done:    make(chan struct{}),
	}
	go func() {
		_, _ = program.Run()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// OnRunStart forwards run start events to the UI.
func (c *Controller) OnRunStart(runDir string, scenario string, branches []string) {
	c.send(Event{Kind: EventRunStart, RunDir: runDir, Scenario: scenario, Branches: branches})
}

// OnBranchStart forwards branch start events to the UI.
func (c *Controller) OnBranchStart(label string, totalSteps int) {
	c.send(Event{Kind: EventBranchStart, Label: label, TotalSteps: totalSteps})
}

// OnStep forwards step progress to the UI.
func (c *Controller) OnStep(label string, step, totalSteps int) {
	c.send(Event{Kind: EventStep, Label: label, Step: step, TotalSteps: totalSteps})
}

// OnMeasurement forwards measurement table events to the UI.
func (c *Controller) OnMeasurement(label string, kind string, name string, rows int) {
	c.send(Event{Kind: EventMeasurement, Label: label, Source: kind + " " + name, Rows: rows})
}

// OnBranchEnd forwards branch completion events to the UI.
func (c *Controller) OnBranchEnd(label string, err error) {
	event := Event{Kind: EventBranchEnd, Label: label}
	if err != nil {
		event.Error = err.Error()
	}
	c.send(event)
}

// OnRunEnd forwards run completion events to the UI and closes it.
func (c *Controller) OnRunEnd(results []pipeline.BranchResult) {
	c.send(Event{Kind: EventRunEnd})
	c.Close()
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
