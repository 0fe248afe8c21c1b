package session

// Observer receives session notifications. Callbacks run on the simulation
// thread during Bus.Drain, never while a state mutation is in progress.
type Observer interface {
	OnGameStateChanged()
	OnGameOver(reason string)
	OnGameWon()
}

// NoticeKind identifies a queued notification.
type NoticeKind uint8

const (
	NoticeStateChanged NoticeKind = iota
	NoticeGameOver
	NoticeGameWon
)

// String returns the notice name.
func (k NoticeKind) String() string {
	switch k {
	case NoticeStateChanged:
		return "state_changed"
	case NoticeGameOver:
		return "game_over"
	case NoticeGameWon:
		return "game_won"
	default:
		return "unknown"
	}
}

// Notice is a pending notification.
type Notice struct {
	Kind   NoticeKind
	Reason string
}

// Bus queues notices raised by state mutations and delivers them to observers
// when drained. Several state changes queued between drains are delivered as
// one OnGameStateChanged.
type Bus struct {
	observers []Observer
	pending   []Notice
	draining  bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers an observer. Subscribing the same observer twice is a no-op.
func (b *Bus) Subscribe(o Observer) {
	for _, existing := range b.observers {
		if existing == o {
			return
		}
	}
	b.observers = append(b.observers, o)
}

// Unsubscribe removes an observer.
func (b *Bus) Unsubscribe(o Observer) {
	for i, existing := range b.observers {
		if existing == o {
			b.observers = append(b.observers[:i], b.observers[i+1:]...)
			return
		}
	}
}

// Publish queues a notice.
func (b *Bus) Publish(n Notice) {
	b.pending = append(b.pending, n)
}

// Pending returns the number of queued notices.
func (b *Bus) Pending() int {
	return len(b.pending)
}

// Drain delivers queued notices in order and returns how many callbacks ran.
// Notices published by observers during delivery wait for the next Drain.
func (b *Bus) Drain() int {
	if b.draining || len(b.pending) == 0 {
		return 0
	}
	b.draining = true
	defer func() { b.draining = false }()

	batch := b.pending
	b.pending = nil

	calls := 0
	changed := false
	for _, n := range batch {
		if n.Kind == NoticeStateChanged {
			if changed {
				continue
			}
			changed = true
		}
		for _, o := range b.observers {
			switch n.Kind {
			case NoticeStateChanged:
				o.OnGameStateChanged()
			case NoticeGameOver:
				o.OnGameOver(n.Reason)
			case NoticeGameWon:
				o.OnGameWon()
			}
			calls++
		}
	}
	return calls
}

// Discard drops queued notices without delivering them.
func (b *Bus) Discard() {
	b.pending = nil
}

// ObserverFuncs adapts plain functions to Observer. Nil fields are skipped.
type ObserverFuncs struct {
	StateChanged func()
	GameOver     func(reason string)
	GameWon      func()
}

func (f *ObserverFuncs) OnGameStateChanged() {
	if f.StateChanged != nil {
		f.StateChanged()
	}
}

func (f *ObserverFuncs) OnGameOver(reason string) {
	if f.GameOver != nil {
		f.GameOver(reason)
	}
}

func (f *ObserverFuncs) OnGameWon() {
	if f.GameWon != nil {
		f.GameWon()
	}
}
