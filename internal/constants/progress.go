package constants

type Progress string

const (
	ProgressPending    Progress = "PENDING"
	ProgressInProgress Progress = "IN_PROGRESS"
	ProgressCompleted  Progress = "COMPLETED"
	ProgressCancelled  Progress = "CANCELLED"
)

var progressTransitions = map[Progress][]Progress{
	ProgressPending:    {ProgressInProgress, ProgressCompleted, ProgressCancelled},
	ProgressInProgress: {ProgressPending, ProgressCompleted, ProgressCancelled},
	ProgressCompleted:  {ProgressPending, ProgressInProgress},
	ProgressCancelled:  {ProgressPending, ProgressInProgress},
}

func (p Progress) Valid() bool {
	_, ok := progressTransitions[p]
	return ok
}

// Terminal reports whether the task is closed and carries a completion time.
func (p Progress) Terminal() bool {
	return p == ProgressCompleted || p == ProgressCancelled
}

func (p Progress) CanTransitionTo(next Progress) bool {
	for _, allowed := range progressTransitions[p] {
		if allowed == next {
			return true
		}
	}
	return false
}

// OpenProgress lists the states the expiry sweep cancels once the due time passes.
func OpenProgress() []Progress {
	return []Progress{ProgressPending, ProgressInProgress}
}
