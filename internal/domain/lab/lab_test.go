package lab

import "testing"

func TestAttachResultCompletesFromAnyStatus(t *testing.T) {
	for _, start := range []TestStatus{StatusPending, StatusCollected, StatusProcessing, StatusCancelled, StatusCompleted} {
		lt := &LabTest{Status: start}
		lt.AttachResult()
		if lt.Status != StatusCompleted {
			t.Errorf("AttachResult from %s: got %s, want %s", start, lt.Status, StatusCompleted)
		}
	}
}

func TestDetachResultRevertsToPending(t *testing.T) {
	for _, start := range []TestStatus{StatusCompleted, StatusCollected, StatusProcessing, StatusCancelled} {
		lt := &LabTest{Status: start}
		lt.DetachResult()
		if lt.Status != StatusPending {
			t.Errorf("DetachResult from %s: got %s, want %s", start, lt.Status, StatusPending)
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	valid := []TestStatus{StatusPending, StatusCollected, StatusProcessing, StatusCompleted, StatusCancelled}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if TestStatus("DONE").IsValid() {
		t.Error("DONE should not be a valid status")
	}
}
