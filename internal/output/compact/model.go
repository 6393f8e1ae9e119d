package compact

type Lifecycle string

const (
	LifecycleIdle     Lifecycle = "idle"
	LifecycleRunning  Lifecycle = "running"
	LifecycleFinished Lifecycle = "finished"
	LifecycleFailed   Lifecycle = "failed"
)

type ProgressModel struct {
	Lifecycle Lifecycle
	State     string
	Status    string
	Percent   int
	Entry     string
	Entries   int
	Warnings  int
}
