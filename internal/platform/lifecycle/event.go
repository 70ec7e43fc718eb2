// Package lifecycle dispatches entity lifecycle events to observers.
//
// Events form a closed set: Created, Updated, Deleted and Restored. Observers
// subscribe per entity and run synchronously inside the operation that
// raised the event, so their errors fail that operation.
package lifecycle

// Entity names the kind of record an event is about.
type Entity string

// Event is one of Created, Updated, Deleted or Restored.
type Event interface {
	// Kind is the lowercase event name, e.g. "created".
	Kind() string
	// Of is the entity the event concerns.
	Of() Entity
	// Data is the record after the change.
	Data() interface{}

	sealed()
}

type Created struct {
	Entity Entity
	Record interface{}
}

type Updated struct {
	Entity Entity
	Record interface{}
}

type Deleted struct {
	Entity Entity
	Record interface{}
}

type Restored struct {
	Entity Entity
	Record interface{}
}

func (Created) Kind() string { return "created" }
func (e Created) Of() Entity { return e.Entity }
func (e Created) Data() interface{} { return e.Record }
func (Created) sealed() {}

func (Updated) Kind() string { return "updated" }
func (e Updated) Of() Entity { return e.Entity }
func (e Updated) Data() interface{} { return e.Record }
func (Updated) sealed() {}

func (Deleted) Kind() string { return "deleted" }
func (e Deleted) Of() Entity { return e.Entity }
func (e Deleted) Data() interface{} { return e.Record }
func (Deleted) sealed() {}

func (Restored) Kind() string { return "restored" }
func (e Restored) Of() Entity { return e.Entity }
func (e Restored) Data() interface{} { return e.Record }
func (Restored) sealed() {}
