package studio

// Status is the session's processing state.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusProcessing Status = "processing"
	StatusSuccess    Status = "success"
	StatusError      Status = "error"
)

// transitions lists the allowed status moves. A busy session never
// accepts a second long-running action.
var transitions = map[Status][]Status{
	StatusIdle:       {StatusProcessing},
	StatusProcessing: {StatusSuccess, StatusError},
	StatusSuccess:    {StatusProcessing},
	StatusError:      {StatusProcessing},
}

func canTransition(from, to Status) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}
