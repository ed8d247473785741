package email

const (
	subjectDeactivationDigestFmt = "%d stale lead(s) deactivated"
	subjectFinanceApprovedFmt    = "Finance approved lead %s"
	subjectFinanceRejectedFmt    = "Finance rejected lead %s"
)
