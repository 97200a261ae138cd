package types

// Stage is the delivery lifecycle step of an accepted order.
type Stage string

func (s Stage) String() string {
	return string(s)
}

const (
	StageDriverAssigned Stage = "DRIVER_ASSIGNED"
	StageReady          Stage = "READY"
	StagePickedUp       Stage = "PICKED_UP"
	StageArrived        Stage = "ARRIVED"
	StageDelivered      Stage = "DELIVERED"
	StageCancelled      Stage = "CANCELLED"
)

// Порядок стадий. Сервер может прыгать произвольно, локально — только вперёд.
var stageOrder = map[Stage]int{
	StageDriverAssigned: 0,
	StageReady:          1,
	StagePickedUp:       2,
	StageArrived:        3,
	StageDelivered:      4,
}

// Index returns the position of the stage in the forward sequence.
// Terminal CANCELLED and unknown stages report -1.
func (s Stage) Index() int {
	if i, ok := stageOrder[s]; ok {
		return i
	}
	return -1
}

// Next returns the single allowed next stage for a local advance.
// ok is false for DELIVERED, CANCELLED and unknown stages.
func (s Stage) Next() (Stage, bool) {
	switch s {
	case StageDriverAssigned:
		return StageReady, true
	case StageReady:
		return StagePickedUp, true
	case StagePickedUp:
		return StageArrived, true
	case StageArrived:
		return StageDelivered, true
	default:
		return "", false
	}
}

// Terminal reports whether the order is finished and the local snapshot must be cleared.
func (s Stage) Terminal() bool {
	return s == StageDelivered || s == StageCancelled
}

// Known reports whether the value is one of the lifecycle stages.
func (s Stage) Known() bool {
	return s.Index() >= 0 || s == StageCancelled
}
