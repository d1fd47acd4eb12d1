package ports

// ActionRecorder conta mutações de domínio efetivadas (métricas)
type ActionRecorder interface {
	Record(action string)
}

const (
	ActionPostCreated    = "post_created"
	ActionPostApproved   = "post_approved"
	ActionPostDeleted    = "post_deleted"
	ActionCommentCreated = "comment_created"
	ActionCommentDeleted = "comment_deleted"
	ActionFollow         = "follow"
	ActionUnfollow       = "unfollow"
	ActionUserCreated    = "user_created"
	ActionUserDeleted    = "user_deleted"
	ActionReportExported = "report_exported"
)
