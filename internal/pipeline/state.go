package pipeline

type State int

const (
	WaitingForDOM State = iota
	LoadingHelper
	Collecting
	Delivering
	Done
)

func (s State) String() string {
	switch s {
	case WaitingForDOM:
		return "waiting_for_dom"
	case LoadingHelper:
		return "loading_helper"
	case Collecting:
		return "collecting"
	case Delivering:
		return "delivering"
	case Done:
		return "done"
	}
	return "unknown"
}
