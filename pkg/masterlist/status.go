package masterlist

// Status is the masterlist lifecycle:
// pending -> processing -> ready -> deduplicating -> completed,
// where completed may re-enter deduplicating on a re-run.
type Status string

const (
	StatusPending       Status = "pending"
	StatusProcessing    Status = "processing"
	StatusReady         Status = "ready"
	StatusDeduplicating Status = "deduplicating"
	StatusCompleted     Status = "completed"
)

var transitions = map[Status][]Status{
	StatusPending:       {StatusProcessing},
	StatusProcessing:    {StatusReady},
	StatusReady:         {StatusDeduplicating},
	StatusDeduplicating: {StatusCompleted},
	StatusCompleted:     {StatusDeduplicating},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusReady, StatusDeduplicating, StatusCompleted:
		return true
	}
	return false
}

func (s Status) CanTransition(to Status) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// CanStartDedup reports whether a deduplication run may begin.
func (s Status) CanStartDedup() bool {
	return s == StatusReady || s == StatusCompleted
}

func (s Status) String() string {
	return string(s)
}
