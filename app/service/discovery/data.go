package discovery

type SlotState string

const (
	StateUnknown   SlotState = "unknown"
	StatePartial   SlotState = "partial"
	StateConfirmed SlotState = "confirmed"
)

type Dimension string

const (
	Budget    Dimension = "budget"
	Authority Dimension = "authority"
	Need      Dimension = "need"
	Timeline  Dimension = "timeline"
)

var Dimensions = []Dimension{Budget, Authority, Need, Timeline}

type Slot struct {
	State SlotState `json:"state"`
	Value string    `json:"value,omitempty"`
}

// Status tracks the four BANT qualification slots of one session.
type Status struct {
	Budget    Slot `json:"budget"`
	Authority Slot `json:"authority"`
	Need      Slot `json:"need"`
	Timeline  Slot `json:"timeline"`
}

// Entities are the lightweight detections pulled out of a free-text note.
type Entities struct {
	BudgetAmount   string `json:"budget_amount,omitempty"`
	PainPoint      string `json:"pain_point,omitempty"`
	CompetitorName string `json:"competitor_name,omitempty"`
	Timeframe      string `json:"timeframe,omitempty"`
	Role           string `json:"role,omitempty"`
}

func NewStatus() Status {
	return Status{
		Budget:    Slot{State: StateUnknown},
		Authority: Slot{State: StateUnknown},
		Need:      Slot{State: StateUnknown},
		Timeline:  Slot{State: StateUnknown},
	}
}

func (s *Status) slot(d Dimension) *Slot {
	switch d {
	case Budget:
		return &s.Budget
	case Authority:
		return &s.Authority
	case Need:
		return &s.Need
	case Timeline:
		return &s.Timeline
	}

	return nil
}

func (s *Status) Slot(d Dimension) Slot {
	if slot := s.slot(d); slot != nil {
		return *slot
	}

	return Slot{}
}

// CompletionRate is the share of slots at partial or better, always a
// multiple of 25.
func (s *Status) CompletionRate() int {
	touched := 0
	for _, d := range Dimensions {
		if s.Slot(d).State != StateUnknown {
			touched++
		}
	}

	return touched * 100 / len(Dimensions)
}
