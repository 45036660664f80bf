package models

import "time"

// SweepWorkflowInput is passed by the schedule on every run
type SweepWorkflowInput struct {
	// ReconcileCoupons also finalizes provisional coupons in the same run
	ReconcileCoupons bool `json:"reconcile_coupons"`
}

// SweepActivityInput pins the sweep to the workflow's clock
type SweepActivityInput struct {
	Now time.Time `json:"now"`
}

// SweepActivityResult mirrors the HTTP sweep response
type SweepActivityResult struct {
	NewslettersSent   int `json:"newsletters_sent"`
	NewslettersFailed int `json:"newsletters_failed"`
	PostsPublished    int `json:"posts_published"`
}

type ReconcileActivityResult struct {
	Finalized int `json:"finalized"`
	Removed   int `json:"removed"`
	Failed    int `json:"failed"`
}

// SweepWorkflowResult is recorded in the workflow history
type SweepWorkflowResult struct {
	Sweep       SweepActivityResult      `json:"sweep"`
	Reconcile   *ReconcileActivityResult `json:"reconcile,omitempty"`
	CompletedAt time.Time                `json:"completed_at"`
}
