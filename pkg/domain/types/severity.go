package types

// Severity represents the ordinal escalation severity scale.
// SeverityUnknown is used when an external ticket reports no usable level.
type Severity string

const (
	SeveritySev1     Severity = "SEV1"
	SeveritySev2     Severity = "SEV2"
	SeveritySev25    Severity = "SEV2.5"
	SeveritySev3     Severity = "SEV3"
	SeveritySev4     Severity = "SEV4"
	SeveritySev5     Severity = "SEV5"
	SeverityStandard Severity = "Standard"
	SeverityUnknown  Severity = ""
)

// String returns the string representation
func (s Severity) String() string {
	return string(s)
}

// Rank returns the ordinal position of the severity, lower is more urgent.
// Standard and unknown severities rank below SEV5.
func (s Severity) Rank() int {
	switch s {
	case SeveritySev1:
		return 1
	case SeveritySev2:
		return 2
	case SeveritySev25:
		return 3
	case SeveritySev3:
		return 4
	case SeveritySev4:
		return 5
	case SeveritySev5:
		return 6
	default:
		return 7
	}
}

// IsCritical returns true for the severities that require ticket evidence
func (s Severity) IsCritical() bool {
	return s == SeveritySev1 || s == SeveritySev2
}

// IsValid returns true if the severity is one of the known scale values
func (s Severity) IsValid() bool {
	switch s {
	case SeveritySev1, SeveritySev2, SeveritySev25, SeveritySev3, SeveritySev4, SeveritySev5, SeverityStandard:
		return true
	}
	return false
}

// ParseSeverity parses a raw form value into a Severity.
// Unknown values return SeverityUnknown.
func ParseSeverity(raw string) Severity {
	s := Severity(raw)
	if s.IsValid() {
		return s
	}
	return SeverityUnknown
}

// MismatchReason identifies which validation rule flagged a submission
type MismatchReason string

const (
	MismatchNone              MismatchReason = ""
	MismatchMissingTicket     MismatchReason = "missing_ticket"
	MismatchTicketSeverity    MismatchReason = "ticket_severity_mismatch"
	MismatchNonUrgentLanguage MismatchReason = "non_urgent_language"
	MismatchNeedByDistant     MismatchReason = "need_by_distant"
)

// String returns the string representation
func (r MismatchReason) String() string {
	return string(r)
}

// TicketSource identifies which external service resolved a ticket
type TicketSource string

const (
	TicketSourceNone   TicketSource = ""
	TicketSourceSim    TicketSource = "sim"
	TicketSourceRemedy TicketSource = "remedy"
)

// String returns the string representation
func (s TicketSource) String() string {
	return string(s)
}
