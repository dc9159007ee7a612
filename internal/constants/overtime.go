package constants

type OvertimeKind string

const (
	OvertimeBeforeShift OvertimeKind = "before_shift"
	OvertimeAfterShift  OvertimeKind = "after_shift"
	OvertimeRestDay     OvertimeKind = "rest_day"
)

func (k OvertimeKind) Valid() bool {
	return k == OvertimeBeforeShift || k == OvertimeAfterShift || k == OvertimeRestDay
}

type ValidationState string

const (
	ValidationValidated         ValidationState = "validated"
	ValidationPendingCorrection ValidationState = "pending_correction"
)

func (s ValidationState) Valid() bool {
	return s == ValidationValidated || s == ValidationPendingCorrection
}

type CoverageState string

const (
	Covered   CoverageState = "COVERED"
	Uncovered CoverageState = "UNCOVERED"
)
