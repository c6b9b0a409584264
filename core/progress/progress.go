package progress

// Observer receives progress events of a long running operation
type Observer interface {
	Notify(Event)
}

type Event interface {
	String() string
}

// ObserverFunc adapts a plain function to an Observer
type ObserverFunc func(Event)

func (f ObserverFunc) Notify(evt Event) {
	f(evt)
}

// Notify sends evt to observer when one is set
func Notify(observer Observer, evt Event) {
	if observer == nil {
		return
	}
	observer.Notify(evt)
}

// Observers fans one event out to many observers, in order
type Observers []Observer

func (o Observers) Notify(evt Event) {
	for _, observer := range o {
		Notify(observer, evt)
	}
}
