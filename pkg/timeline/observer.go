package timeline

// Observer receives notifications a host UI cares about. Calls are made
// synchronously from the mutating operation and must not call back into the
// editor.
type Observer interface {
	PlayheadChanged(frame int)
	RegionSelected(regionID int)
	RegionDeselected()
	Notice(message string)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) PlayheadChanged(int) {}
func (NopObserver) RegionSelected(int)  {}
func (NopObserver) RegionDeselected()   {}
func (NopObserver) Notice(string)       {}

// ObserverFuncs adapts optional callbacks to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	OnPlayheadChanged  func(frame int)
	OnRegionSelected   func(regionID int)
	OnRegionDeselected func()
	OnNotice           func(message string)
}

func (o ObserverFuncs) PlayheadChanged(frame int) {
	if o.OnPlayheadChanged != nil {
		o.OnPlayheadChanged(frame)
	}
}

func (o ObserverFuncs) RegionSelected(id int) {
	if o.OnRegionSelected != nil {
		o.OnRegionSelected(id)
	}
}

func (o ObserverFuncs) RegionDeselected() {
	if o.OnRegionDeselected != nil {
		o.OnRegionDeselected()
	}
}

func (o ObserverFuncs) Notice(msg string) {
	if o.OnNotice != nil {
		o.OnNotice(msg)
	}
}

// MultiObserver fans notifications out in order.
type MultiObserver []Observer

func (m MultiObserver) PlayheadChanged(frame int) {
	for _, o := range m {
		o.PlayheadChanged(frame)
	}
}

func (m MultiObserver) RegionSelected(id int) {
	for _, o := range m {
		o.RegionSelected(id)
	}
}

func (m MultiObserver) RegionDeselected() {
	for _, o := range m {
		o.RegionDeselected()
	}
}

func (m MultiObserver) Notice(msg string) {
	for _, o := range m {
		o.Notice(msg)
	}
}
