// FILE: src/internal/client/helpers.go
package client

import (
	"fmt"
	"time"

	"instaroid/src/internal/core"
)

// Timer measures one labelled operation
type Timer struct {
	buffer    *Buffer
	label     string
	component string
	start     time.Time
}

// Time starts a timer; End logs the elapsed time at INFO
func (b *Buffer) Time(label, component string) *Timer {
	return &Timer{
		buffer:    b,
		label:     label,
		component: component,
		start:     time.Now(),
	}
}

// End logs "Performance: <label> completed in <ms>ms" and returns the elapsed time
func (t *Timer) End() time.Duration {
	elapsed := time.Since(t.start)
	ms := float64(elapsed) / float64(time.Millisecond)
	t.buffer.Info(fmt.Sprintf("Performance: %s completed in %.2fms", t.label, ms),
		core.Data{"duration": ms}, t.component)
	return elapsed
}

// UserAction logs "User Action: <action>" at INFO
func (b *Buffer) UserAction(action string, data core.Data, component string) {
	b.Info("User Action: "+action, data, component)
}

// APICall logs an outbound API call; a status of 400 or above is an ERROR.
// Zero status or duration are treated as unknown and left out of data.
func (b *Buffer) APICall(method, url string, status int, duration time.Duration, component string) {
	data := core.Data{"method": method, "url": url}
	if status > 0 {
		data["status"] = status
	}
	if duration > 0 {
		data["duration"] = duration.Milliseconds()
	}

	if status >= 400 {
		b.Error(fmt.Sprintf("API Error: %s %s - Status: %d", method, url, status), data, component)
		return
	}
	b.Info(fmt.Sprintf("API Call: %s %s", method, url), data, component)
}

func (b *Buffer) ComponentMount(name string, props core.Data) {
	b.Debug("Component Mounted: "+name, props, name)
}

func (b *Buffer) ComponentUnmount(name string) {
	b.Debug("Component Unmounted: "+name, nil, name)
}

// ErrorBoundary logs an error caught while rendering a component tree
func (b *Buffer) ErrorBoundary(err error, info core.Data, component string) {
	data := core.Data{"error": errorText(err)}
	if stack, ok := info["componentStack"]; ok {
		data["componentStack"] = stack
	}
	b.Error("Error Boundary Caught Error", data, component)
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
