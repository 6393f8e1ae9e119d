package compact

import "sync"

// StateMachine folds workflow events into the model a progress line renders.
type StateMachine struct {
	mu    sync.Mutex
	state ProgressModel
}

func NewStateMachine() *StateMachine {
	m := &StateMachine{}
	m.Reset()
	return m
}

func (m *StateMachine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = ProgressModel{Lifecycle: LifecycleIdle, Status: "Ready to install."}
}

func (m *StateMachine) Begin() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Lifecycle = LifecycleRunning
}

func (m *StateMachine) SetState(state string, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.State = state
	if status != "" {
		m.state.Status = status
	}
}

// SetPercent never lets the rendered percentage move backwards.
func (m *StateMachine) SetPercent(percent int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	percent = clampPercent(percent)
	if percent > m.state.Percent {
		m.state.Percent = percent
	}
}

func (m *StateMachine) SetEntry(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Entry = path
	m.state.Entries++
}

func (m *StateMachine) AddWarning() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Warnings++
}

func (m *StateMachine) Finish(failed bool, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if failed {
		m.state.Lifecycle = LifecycleFailed
	} else {
		m.state.Lifecycle = LifecycleFinished
	}
	if status != "" {
		m.state.Status = status
	}
	m.state.Entry = ""
}

func (m *StateMachine) Snapshot() ProgressModel {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func clampPercent(percent int) int {
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}
