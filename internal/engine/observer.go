package engine

// Throw records one processed item.
type Throw struct {
	Seq   int64 `json:"seq"`
	Round int   `json:"round"`
	From  int   `json:"from"`
	To    int   `json:"to"`
	Item  int64 `json:"item"`
	Worry int64 `json:"worry"`
}

// Snapshot is the state of every worker at a point in a run.
type Snapshot struct {
	Round    int       `json:"round"`
	Activity []int64   `json:"activity"`
	Queues   [][]int64 `json:"queues"`
}

// Observer receives events from the control loop as they happen.
//
// Returning an error aborts the run. Observers must not retain the
// slices of a Snapshot past the call if they intend to modify them.
type Observer interface {
	OnThrow(t Throw) error
	OnRoundEnd(s Snapshot) error
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	Throw    func(Throw) error
	RoundEnd func(Snapshot) error
}

// OnThrow implements Observer.
func (f ObserverFuncs) OnThrow(t Throw) error {
	if f.Throw == nil {
		return nil
	}
	return f.Throw(t)
}

// OnRoundEnd implements Observer.
func (f ObserverFuncs) OnRoundEnd(s Snapshot) error {
	if f.RoundEnd == nil {
		return nil
	}
	return f.RoundEnd(s)
}
