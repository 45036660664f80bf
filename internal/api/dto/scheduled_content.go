package dto

// ProcessScheduledContentResponse summarizes one sweep
type ProcessScheduledContentResponse struct {
	Success           bool `json:"success"`
	NewslettersSent   int  `json:"newslettersSent"`
	NewslettersFailed int  `json:"newslettersFailed"`
	PostsPublished    int  `json:"postsPublished"`
}
