package view

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// Messages shown for the page elements that carry text.
var elementText = map[string]string{
	"text-submit-success": "Success! Your submission was received.",
}

// Terminal renders page feedback as colored lines and remembers what was shown.
type Terminal struct {
	out io.Writer

	mu      sync.Mutex
	visible map[string]bool
	alerts  []string
	errs    []error

	red   func(a ...interface{}) string
	green func(a ...interface{}) string
}

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		out:     out,
		visible: make(map[string]bool),
		red:     color.New(color.FgRed, color.Bold).SprintFunc(),
		green:   color.New(color.FgGreen).SprintFunc(),
	}
}

// Alert shows a blocking user-facing message.
func (t *Terminal) Alert(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.alerts = append(t.alerts, msg)
	fmt.Fprintln(t.out, t.red(msg))
}

// Show reveals a hidden-by-default element.
func (t *Terminal) Show(elementID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.visible[elementID] = true

	text, ok := elementText[elementID]
	if !ok {
		text = elementID
	}
	fmt.Fprintln(t.out, t.green(text))
}

// Fail reports a request that did not succeed.
func (t *Terminal) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errs = append(t.errs, err)
	fmt.Fprintln(t.out, t.red("Submission failed: "+err.Error()))
}

func (t *Terminal) Visible(elementID string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.visible[elementID]
}

func (t *Terminal) Alerts() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.alerts...)
}

func (t *Terminal) Failures() []error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]error(nil), t.errs...)
}
