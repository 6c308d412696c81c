package capture

type Step string

const (
	StepDetails   Step = "details"
	StepLocation  Step = "location"
	StepPhoto     Step = "photo"
	StepContact   Step = "contact"
	StepReview    Step = "review"
	StepSubmitted Step = "submitted"
)

// flow returns the ordered wizard steps. Contact is only asked of
// unauthenticated reporters.
func flow(authenticated bool) []Step {
	if authenticated {
		return []Step{StepDetails, StepLocation, StepPhoto, StepReview}
	}
	return []Step{StepDetails, StepLocation, StepPhoto, StepContact, StepReview}
}

func neighbour(steps []Step, cur Step, delta int) (Step, bool) {
	for i, s := range steps {
		if s != cur {
			continue
		}
		j := i + delta
		if j < 0 || j >= len(steps) {
			return cur, false
		}
		return steps[j], true
	}
	return cur, false
}
