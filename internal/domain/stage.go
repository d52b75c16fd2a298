package domain

// Stage is the position of a booking in the five-step display sequence.
type Stage int

const (
	StageUnknown  Stage = -1
	StageBriefing Stage = 0
	StageCheckout Stage = 1
	StageFlying   Stage = 2
	StageCheckin  Stage = 3
	StageDebrief  Stage = 4
)

var stageByStatus = map[string]Stage{
	"unconfirmed": StageBriefing,
	"confirmed":   StageBriefing,
	"briefing":    StageBriefing,
	"checkout":    StageCheckout,
	"flying":      StageFlying,
	"checkin":     StageCheckin,
	"complete":    StageDebrief,
	"debrief":     StageDebrief,
}

// StageOf maps a status string to its display stage. Statuses outside the
// table map to StageUnknown.
func StageOf(status string) Stage {
	if s, ok := stageByStatus[status]; ok {
		return s
	}
	return StageUnknown
}

func (s Stage) Name() string {
	switch s {
	case StageBriefing:
		return "briefing"
	case StageCheckout:
		return "checkout"
	case StageFlying:
		return "flying"
	case StageCheckin:
		return "checkin"
	case StageDebrief:
		return "debrief"
	default:
		return "unknown"
	}
}
