package task

// Chance branches on a single coin flip.
//
// Without RecordToFlag, a flip of 0 lets the pipeline continue and anything
// else stops it, which authors "X% chance to do nothing further". With
// RecordToFlag, the flip is stored as a boolean (nonzero is true) in Outcome
// and in the pipeline's shared flag, and the pipeline always continues.
type Chance struct {
	RecordToFlag bool
	Outcome      Flag
}

var _ Task = (*Chance)(nil)

func NewChance(recordToFlag bool) *Chance {
	return &Chance{RecordToFlag: recordToFlag}
}

// Process queries the provider exactly once. A provider error is returned
// as is and leaves Outcome untouched.
func (c *Chance) Process(ctx *Context) (State, error) {
	v, err := ctx.Provider.CoinFlip(ctx.Source, ctx.Target)
	if err != nil {
		return StateStop, err
	}

	if !c.RecordToFlag {
		if v == 0 {
			return StateComplete, nil
		}
		return StateStop, nil
	}

	c.Outcome = FlagOf(v != 0)
	ctx.Flag = c.Outcome
	return StateComplete, nil
}

// Clone copies the configuration. The clone's outcome is unresolved.
func (c *Chance) Clone() Task {
	return &Chance{RecordToFlag: c.RecordToFlag}
}
