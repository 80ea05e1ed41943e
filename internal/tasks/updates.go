package tasks

import "math"

// Phase identifies where a conversion currently is.
type Phase int

const (
	PhaseFetching Phase = iota
	PhaseNormalizing
	PhaseResolving
	PhaseMaterializing
	PhaseDone
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseFetching:
		return "fetching"
	case PhaseNormalizing:
		return "normalizing"
	case PhaseResolving:
		return "resolving"
	case PhaseMaterializing:
		return "materializing"
	case PhaseDone:
		return "done"
	case PhaseFailed:
		return "failed"
	default:
		return ""
	}
}

// ProgressUpdate is one point-in-time snapshot of a running conversion.
// Percent runs 0-50 while fetching and 50-100 while resolving; it reaches
// 100 only on PhaseDone. PhaseFailed updates carry no Percent.
type ProgressUpdate struct {
	Phase     Phase
	Percent   int
	Message   string
	Completed int
	Total     int
}

// fetchPercent maps item progress onto the first half of the bar.
func fetchPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 50))
}

// resolvePercent maps item progress onto the second half of the bar.
func resolvePercent(completed, total int) int {
	if total <= 0 {
		return 50
	}
	return 50 + int(math.Round(float64(completed)/float64(total)*50))
}

// sendUpdate delivers a progress update without ever blocking the pipeline.
func sendUpdate(updates chan<- ProgressUpdate, update ProgressUpdate) {
	if updates == nil {
		return
	}
	select {
	case updates <- update:
	default:
	}
}
