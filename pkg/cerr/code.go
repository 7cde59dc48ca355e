package cerr

// Code classifies every failure that may cross the sync-engine boundary.
// Remote-call failures map onto Network (no response received), Rejected
// (non-success response, message taken from the body's detail field when
// present) and Malformed (success status but an unusable body).
type Code int

const (
	OK Code = iota
	Canceled
	Unknown
	InvalidArgument
	DeadlineExceeded
	NotFound
	FailedPrecondition
	Network
	Rejected
	Malformed
)

var codeNames = map[Code]string{
	OK:                 "ok",
	Canceled:           "canceled",
	Unknown:            "unknown",
	InvalidArgument:    "invalid_argument",
	DeadlineExceeded:   "deadline_exceeded",
	NotFound:           "not_found",
	FailedPrecondition: "failed_precondition",
	Network:            "network",
	Rejected:           "rejected",
	Malformed:          "malformed",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "unknown"
}
