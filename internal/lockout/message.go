package lockout

import (
	"fmt"
)

// Notice is the narrowed shape both CheckResult and FailureOutcome reduce to
// before formatting. Seconds and Remaining are optional; when a field is
// absent the formatter degrades to the most generic applicable message.
type Notice struct {
	Status       Status
	Seconds      int64
	HasSeconds   bool
	Remaining    int
	HasRemaining bool
}

func (r CheckResult) Notice() Notice {
	n := Notice{Status: r.Status}
	switch r.Status {
	case StatusTemporarilyLocked:
		n.Seconds = r.RemainingSeconds
		n.HasSeconds = true
	case StatusOK:
		n.Remaining = r.Remaining
		n.HasRemaining = true
	}
	return n
}

func (o FailureOutcome) Notice() Notice {
	n := Notice{Status: o.Status}
	switch o.Status {
	case StatusTemporarilyLocked:
		n.Seconds = o.DurationSeconds
		n.HasSeconds = true
	case StatusAttemptRecorded:
		n.Remaining = o.Remaining
		n.HasRemaining = true
	}
	return n
}

// FormatMessage renders the user-facing Korean guidance for a lockout notice.
// Time remainders always round up: 3601 seconds reads as 2 hours.
func FormatMessage(n Notice) string {
	switch n.Status {
	case StatusPermanentlyLocked:
		return "계정이 잠겼습니다. 관리자에게 문의해주세요."

	case StatusTemporarilyLocked:
		if !n.HasSeconds {
			return "잠시 후 다시 시도해주세요."
		}
		if n.Seconds >= 3600 {
			return fmt.Sprintf("%d시간 후에 다시 시도해주세요.", (n.Seconds+3599)/3600)
		}
		if n.Seconds >= 60 {
			return fmt.Sprintf("%d분 후에 다시 시도해주세요.", (n.Seconds+59)/60)
		}
		return fmt.Sprintf("%d초 후에 다시 시도해주세요.", n.Seconds)

	default:
		if n.HasRemaining {
			return fmt.Sprintf("PIN이 일치하지 않습니다. (%d회 남음)", n.Remaining)
		}
		return "PIN이 일치하지 않습니다."
	}
}
