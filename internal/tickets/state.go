package tickets

// State is where a ticket sits in its lifecycle. Only the reaction and close
// transitions are reachable from gateway events.
type State int

const (
	StatePromptPosted State = iota + 1
	StateChannelCreated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StatePromptPosted:
		return "prompt_posted"
	case StateChannelCreated:
		return "channel_created"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Outcome is the routing decision for a reaction on a prompt.
type Outcome int

const (
	OutcomeUntracked Outcome = iota
	OutcomeBotActor
	OutcomeWrongEmoji
	OutcomeCreate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUntracked:
		return "untracked"
	case OutcomeBotActor:
		return "bot_actor"
	case OutcomeWrongEmoji:
		return "wrong_emoji"
	case OutcomeCreate:
		return "create"
	default:
		return "unknown"
	}
}

// Next is the state a prompt reaches after the outcome. Everything but
// OutcomeCreate loops back to StatePromptPosted.
func (o Outcome) Next() State {
	if o == OutcomeCreate {
		return StateChannelCreated
	}
	return StatePromptPosted
}

type Decision struct {
	Outcome    Outcome
	TemplateID string
}
