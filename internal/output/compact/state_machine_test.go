package compact

import "testing"

func TestStateMachineClampsAndIsMonotonic(t *testing.T) {
	m := NewStateMachine()
	m.Begin()
	m.SetPercent(40)
	m.SetPercent(20)
	m.SetPercent(140)

	snapshot := m.Snapshot()
	if snapshot.Percent != 100 {
		t.Fatalf("expected clamp to 100, got %d", snapshot.Percent)
	}
	if snapshot.Lifecycle != LifecycleRunning {
		t.Fatalf("expected running lifecycle, got %s", snapshot.Lifecycle)
	}
}

func TestStateMachineFinishClearsEntry(t *testing.T) {
	m := NewStateMachine()
	m.SetEntry("boot/kernel.bin")
	m.Finish(true, "Installation failed.")

	snapshot := m.Snapshot()
	if snapshot.Entry != "" || snapshot.Lifecycle != LifecycleFailed || snapshot.Status != "Installation failed." {
		t.Fatalf("unexpected snapshot: %+v", snapshot)
	}
}

func TestRenderProgress(t *testing.T) {
	if got := RenderProgress(50, 10); got != "[#####-----]  50.0%" {
		t.Fatalf("RenderProgress(50) = %q", got)
	}
	if got := RenderProgress(-5, 4); got != "[----]   0.0%" {
		t.Fatalf("RenderProgress(-5) = %q", got)
	}
}

func TestRenderStatusLineIncludesEntry(t *testing.T) {
	line := RenderStatusLine(ProgressModel{Percent: 100, Status: "Copying files", Entry: "boot/kernel.bin"}, 4)
	if line != "[install] [####] 100.0% Copying files (boot/kernel.bin)" {
		t.Fatalf("unexpected line: %q", line)
	}
}
