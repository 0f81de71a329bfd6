package monitoring

import (
	"sort"
	"sync"
	"time"
)

// Component states reported by the concierge
const (
	StatusOperational = "operational"
	StatusDegraded    = "degraded"
)

// ComponentHealth is the last known state of one component
type ComponentHealth struct {
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RunRecord captures the outcome of the most recent workflow run
type RunRecord struct {
	Workflow string        `json:"workflow"`
	At       time.Time     `json:"at"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Monitor tracks component health and workflow runs
type Monitor struct {
	components map[string]ComponentHealth
	runs       map[string]RunRecord
	mutex      sync.RWMutex
	startTime  time.Time
	now        func() time.Time
}

// NewMonitor creates a new monitoring instance
func NewMonitor(now func() time.Time) *Monitor {
	if now == nil {
		now = time.Now
	}
	return &Monitor{
		components: make(map[string]ComponentHealth),
		runs:       make(map[string]RunRecord),
		startTime:  now(),
		now:        now,
	}
}

// SetComponent records a component status
func (m *Monitor) SetComponent(name, status, detail string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.components[name] = ComponentHealth{
		Name:      name,
		Status:    status,
		Detail:    detail,
		UpdatedAt: m.now(),
	}
}

// Component returns a single component's health
func (m *Monitor) Component(name string) (ComponentHealth, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	c, ok := m.components[name]
	return c, ok
}

// Components returns all components sorted by name
func (m *Monitor) Components() []ComponentHealth {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]ComponentHealth, 0, len(m.components))
	for _, c := range m.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RecordRun stores the outcome of a workflow run, replacing the previous one
func (m *Monitor) RecordRun(workflow string, started time.Time, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	record := RunRecord{
		Workflow: workflow,
		At:       started,
		Duration: m.now().Sub(started),
	}
	if err != nil {
		record.Error = err.Error()
	}
	m.runs[workflow] = record
}

// LastRun returns the most recent run of a workflow
func (m *Monitor) LastRun(workflow string) (RunRecord, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	r, ok := m.runs[workflow]
	return r, ok
}

// Uptime returns the time since the monitor was created
func (m *Monitor) Uptime() time.Duration {
	return m.now().Sub(m.startTime)
}
