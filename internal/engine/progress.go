package engine

// progressTracker holds the run's percentage. It only moves forward and
// never exceeds 100; onChange fires once per actual change.
type progressTracker struct {
	value    int
	onChange func(int)
}

func (p *progressTracker) Value() int {
	return p.value
}

func (p *progressTracker) Add(delta int) {
	p.Set(p.value + delta)
}

func (p *progressTracker) Set(value int) {
	if value > 100 {
		value = 100
	}
	if value <= p.value {
		return
	}
	p.value = value
	if p.onChange != nil {
		p.onChange(value)
	}
}
