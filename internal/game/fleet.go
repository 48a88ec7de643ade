package game

// Fleet holds the living ships of one side. It never owns them.
type Fleet struct {
	Ships []*Ship
}

func (f *Fleet) Alive() bool { return len(f.Ships) > 0 }

func (f *Fleet) removeDeadShips() {
	kept := make([]*Ship, 0, len(f.Ships))
	for _, s := range f.Ships {
		if s.Alive() {
			kept = append(kept, s)
		}
	}
	f.Ships = kept
}
