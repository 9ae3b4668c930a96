package wizard

// Step is one section of the wizard, in display order.
type Step int

const (
	StepSearch Step = iota
	StepConfirm
	StepOptions
	StepFinish
)

var steps = []Step{StepSearch, StepConfirm, StepOptions, StepFinish}

func (s Step) String() string {
	switch s {
	case StepSearch:
		return "Find a show"
	case StepConfirm:
		return "Pick the parent folder"
	case StepOptions:
		return "Customize options"
	case StepFinish:
		return "Add show"
	default:
		return "unknown"
	}
}

// Steps lists every step in order.
func Steps() []Step {
	return append([]Step(nil), steps...)
}

// GoToStep activates the step whose position plus one equals n. Unknown
// numbers leave the active step unchanged.
func (c *Controller) GoToStep(n int) {
	for i, s := range steps {
		if i+1 == n {
			c.step = s
		}
	}
}

// LoadSection activates the step at index i.
func (c *Controller) LoadSection(i int) {
	if i >= 0 && i < len(steps) {
		c.step = steps[i]
	}
}

// NextStep moves to the following step, stopping at the last one.
func (c *Controller) NextStep() {
	c.LoadSection(int(c.step) + 1)
}

// PrevStep moves to the preceding step, stopping at the first one.
func (c *Controller) PrevStep() {
	c.LoadSection(int(c.step) - 1)
}
