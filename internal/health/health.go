// Package health runs diagnostic checks over an installation.
//
// Checks run concurrently, each under its own timeout, and a panicking
// check is reported as unhealthy instead of taking the process down.
// Results come back in registration order so they can be printed as a
// report.
package health

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusUnknown   Status = "unknown"
)

// DefaultTimeout bounds a check registered without a timeout.
const DefaultTimeout = 5 * time.Second

// CheckResult represents the result of a health check.
type CheckResult struct {
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Check is a function that performs a health check.
type Check func(ctx context.Context) CheckResult

// Component is a named check.
type Component struct {
	Name string
	// Critical failures make the overall status unhealthy; others only
	// degrade it.
	Critical bool
	Check    Check
	Timeout  time.Duration
}

// Entry is one line of a Report.
type Entry struct {
	Name     string
	Critical bool
	CheckResult
}

// Report holds check results in registration order.
type Report []Entry

// Checker manages health checks.
type Checker struct {
	mu         sync.Mutex
	components []*Component
}

// NewChecker creates a new Checker.
func NewChecker() *Checker {
	return &Checker{}
}

// Register adds a component. Registering a name again replaces it.
func (c *Checker) Register(component *Component) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if component.Timeout == 0 {
		component.Timeout = DefaultTimeout
	}
	for i, existing := range c.components {
		if existing.Name == component.Name {
			c.components[i] = component
			return
		}
	}
	c.components = append(c.components, component)
}

// RegisterFunc registers a check with the default timeout.
func (c *Checker) RegisterFunc(name string, critical bool, check Check) {
	c.Register(&Component{Name: name, Critical: critical, Check: check})
}

// Check runs all registered checks.
func (c *Checker) Check(ctx context.Context) Report {
	c.mu.Lock()
	components := append([]*Component(nil), c.components...)
	c.mu.Unlock()

	report := make(Report, len(components))
	var wg sync.WaitGroup
	for i, comp := range components {
		wg.Add(1)
		go func(i int, comp *Component) {
			defer wg.Done()
			report[i] = Entry{
				Name:        comp.Name,
				Critical:    comp.Critical,
				CheckResult: run(ctx, comp),
			}
		}(i, comp)
	}
	wg.Wait()
	return report
}

func run(ctx context.Context, comp *Component) CheckResult {
	checkCtx, cancel := context.WithTimeout(ctx, comp.Timeout)
	defer cancel()

	start := time.Now()
	done := make(chan CheckResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- CheckResult{
					Status:  StatusUnhealthy,
					Message: "check panicked",
					Error:   fmt.Sprint(r),
				}
			}
		}()
		done <- comp.Check(checkCtx)
	}()

	var result CheckResult
	select {
	case result = <-done:
	case <-checkCtx.Done():
		result = CheckResult{
			Status:  StatusUnhealthy,
			Message: "check timed out",
			Error:   checkCtx.Err().Error(),
		}
	}
	result.Duration = time.Since(start)
	return result
}

// Status aggregates the report. A critical failure is unhealthy; any
// other failure degrades.
func (r Report) Status() Status {
	if len(r) == 0 {
		return StatusUnknown
	}
	degraded := false
	for _, e := range r {
		switch e.Status {
		case StatusHealthy:
		case StatusUnhealthy, StatusUnknown:
			if e.Critical {
				return StatusUnhealthy
			}
			degraded = true
		default:
			degraded = true
		}
	}
	if degraded {
		return StatusDegraded
	}
	return StatusHealthy
}

// DatabaseCheck reports whether ping succeeds.
func DatabaseCheck(ping func(ctx context.Context) error) Check {
	return func(ctx context.Context) CheckResult {
		if err := ping(ctx); err != nil {
			return CheckResult{
				Status:  StatusUnhealthy,
				Message: "database unavailable",
				Error:   err.Error(),
			}
		}
		return CheckResult{Status: StatusHealthy, Message: "database ok"}
	}
}

// FileExistsCheck reports whether path exists.
func FileExistsCheck(path string) Check {
	return func(ctx context.Context) CheckResult {
		_, err := os.Stat(path)
		switch {
		case err == nil:
			return CheckResult{Status: StatusHealthy, Message: path}
		case errors.Is(err, os.ErrNotExist):
			return CheckResult{Status: StatusUnhealthy, Message: path + " is missing"}
		default:
			return CheckResult{Status: StatusUnhealthy, Message: "cannot stat " + path, Error: err.Error()}
		}
	}
}

// CustomCheck creates a check from a function that returns a description
// of what it found.
func CustomCheck(fn func() (string, error)) Check {
	return func(ctx context.Context) CheckResult {
		msg, err := fn()
		if err != nil {
			return CheckResult{
				Status:  StatusUnhealthy,
				Message: msg,
				Error:   err.Error(),
			}
		}
		return CheckResult{Status: StatusHealthy, Message: msg}
	}
}
