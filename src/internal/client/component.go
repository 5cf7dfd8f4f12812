// FILE: src/internal/client/component.go
package client

import (
	"time"

	"instaroid/src/internal/core"
)

// AsyncStatus is the phase reported by AsyncOperation
type AsyncStatus string

const (
	AsyncStart   AsyncStatus = "start"
	AsyncSuccess AsyncStatus = "success"
	AsyncError   AsyncStatus = "error"
)

// ComponentLogger tags every entry with a fixed component name
type ComponentLogger struct {
	buffer *Buffer
	name   string
}

// Component returns a logger bound to name and records the mount at DEBUG.
// Call Close when the component goes away.
func (b *Buffer) Component(name string) *ComponentLogger {
	b.ComponentMount(name, nil)
	return &ComponentLogger{buffer: b, name: name}
}

// Close records the unmount
func (c *ComponentLogger) Close() {
	c.buffer.ComponentUnmount(c.name)
}

func (c *ComponentLogger) Name() string {
	return c.name
}

func (c *ComponentLogger) Error(message string, data core.Data) {
	c.buffer.Error(message, data, c.name)
}

func (c *ComponentLogger) Warn(message string, data core.Data) {
	c.buffer.Warn(message, data, c.name)
}

func (c *ComponentLogger) Info(message string, data core.Data) {
	c.buffer.Info(message, data, c.name)
}

func (c *ComponentLogger) Debug(message string, data core.Data) {
	c.buffer.Debug(message, data, c.name)
}

func (c *ComponentLogger) UserAction(action string, data core.Data) {
	c.buffer.UserAction(action, data, c.name)
}

func (c *ComponentLogger) APICall(method, url string, status int, duration time.Duration) {
	c.buffer.APICall(method, url, status, duration, c.name)
}

func (c *ComponentLogger) Time(label string) *Timer {
	return c.buffer.Time(label, c.name)
}

func (c *ComponentLogger) FormSubmit(formData core.Data) {
	c.buffer.UserAction("Form Submit", core.Data{"formData": formData}, c.name)
}

// ButtonClick merges data over {buttonName}
func (c *ComponentLogger) ButtonClick(buttonName string, data core.Data) {
	merged := core.Data{"buttonName": buttonName}
	for k, v := range data {
		merged[k] = v
	}
	c.buffer.UserAction("Button Click", merged, c.name)
}

func (c *ComponentLogger) Navigation(to, from string) {
	data := core.Data{"to": to}
	if from != "" {
		data["from"] = from
	}
	c.buffer.UserAction("Navigation", data, c.name)
}

// LogError records err with optional context at ERROR
func (c *ComponentLogger) LogError(err error, context core.Data) {
	data := core.Data{"error": errorText(err)}
	if context != nil {
		data["context"] = context
	}
	c.buffer.Error("Component Error", data, c.name)
}

// AsyncOperation logs start and success at INFO and anything else at ERROR
func (c *ComponentLogger) AsyncOperation(operation string, status AsyncStatus, data core.Data) {
	switch status {
	case AsyncStart:
		c.buffer.Info("Async Operation Started: "+operation, data, c.name)
	case AsyncSuccess:
		c.buffer.Info("Async Operation Completed: "+operation, data, c.name)
	default:
		c.buffer.Error("Async Operation Failed: "+operation, data, c.name)
	}
}
