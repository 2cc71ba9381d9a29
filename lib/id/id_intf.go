package id

// Gen generates the number uuid.
type Gen func() uint64

// Generator hands out process-local unique ids, both as numbers and as
// their decimal string form.
type Generator interface {
	NumberUUID() uint64
	StrUUID() string
}

var _ Generator = (*defaultID)(nil)

type defaultID struct {
	number Gen
	str    func() string
}

func (id *defaultID) NumberUUID() uint64 { return id.number() }
func (id *defaultID) StrUUID() string    { return id.str() }
