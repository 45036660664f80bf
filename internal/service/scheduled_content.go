package service

import (
	"context"
	"time"

	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/cache"
	"github.com/upassistify/upassistify/internal/domain/newsletter"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/sentry"
)

// dueNewsletterBatch is how many due newsletters are listed per round trip.
// A sweep keeps listing until nothing due is left.
const dueNewsletterBatch = 100

// staleClaimReason is recorded on newsletters that were claimed but never finalized
const staleClaimReason = "delivery did not complete: claim expired while processing"

// ScheduledContentService delivers due newsletters and publishes due blog posts
type ScheduledContentService interface {
	// Sweep processes everything due at now. Per-item failures are recorded
	// on the item or logged and never abort the sweep.
	Sweep(ctx context.Context, now time.Time) (*dto.ProcessScheduledContentResponse, error)
}

type scheduledContentService struct {
	ServiceParams
	dispatcher NewsletterDispatcher
	batchSize  int
}

func NewScheduledContentService(params ServiceParams, dispatcher NewsletterDispatcher) ScheduledContentService {
	return &scheduledContentService{ServiceParams: params, dispatcher: dispatcher, batchSize: dueNewsletterBatch}
}

func (s *scheduledContentService) Sweep(ctx context.Context, now time.Time) (*dto.ProcessScheduledContentResponse, error) {
	start := time.Now()
	defer s.Metrics.ObserveSweep(start)

	span, ctx := s.Sentry.StartSpan(ctx, "sweep.scheduled_content", now.Format(time.RFC3339))
	defer sentry.FinishSpan(span)

	resp := &dto.ProcessScheduledContentResponse{Success: true}
	expired := s.failStaleClaims(ctx, now)
	resp.NewslettersSent, resp.NewslettersFailed = s.processNewsletters(ctx, now)
	resp.NewslettersFailed += expired
	resp.PostsPublished = s.publishPosts(ctx, now)

	s.Logger.Infow("scheduled content processed",
		"now", now,
		"newsletters_sent", resp.NewslettersSent,
		"newsletters_failed", resp.NewslettersFailed,
		"posts_published", resp.PostsPublished,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

// failStaleClaims fails newsletters a previous sweep claimed but never finalized
func (s *scheduledContentService) failStaleClaims(ctx context.Context, now time.Time) int {
	maxAge := s.Config.Scheduler.ClaimMaxAge
	if maxAge <= 0 {
		return 0
	}

	expired, err := s.NewsletterRepo.FailStaleClaims(context.WithoutCancel(ctx), now.Add(-maxAge), staleClaimReason)
	if err != nil {
		s.Logger.Errorw("failed to expire stale newsletter claims", "error", err)
		s.Sentry.CaptureException(err)
		return 0
	}

	if expired > 0 {
		s.Metrics.NewslettersFailed.Add(float64(expired))
		s.Logger.Warnw("expired stale newsletter claims", "count", expired, "claimed_before", now.Add(-maxAge))
	}
	return expired
}

func (s *scheduledContentService) processNewsletters(ctx context.Context, now time.Time) (sent int, failed int) {
	for {
		due, err := s.NewsletterRepo.ListDue(ctx, now, s.batchSize)
		if err != nil {
			s.Logger.Errorw("failed to list due newsletters", "error", err)
			s.Sentry.CaptureException(err)
			return sent, failed
		}

		claimed := 0
		for _, n := range due {
			ok, delivered := s.processNewsletter(ctx, n, now)
			if !ok {
				continue
			}
			claimed++
			if delivered {
				sent++
			} else {
				failed++
			}
		}

		// a short page means nothing due is left. A page where nothing could be
		// claimed would come back unchanged, so stop there too.
		if len(due) < s.batchSize || claimed == 0 {
			return sent, failed
		}
	}
}

// processNewsletter claims and delivers one newsletter. It reports whether this
// sweep claimed it and, if so, whether it ended sent.
func (s *scheduledContentService) processNewsletter(ctx context.Context, n *newsletter.ScheduledNewsletter, now time.Time) (claimed bool, delivered bool) {
	claimed, err := s.NewsletterRepo.Claim(ctx, n.ID, now)
	if err != nil {
		s.Logger.Errorw("failed to claim newsletter", "newsletter_id", n.ID, "error", err)
		s.Sentry.CaptureWithTags(err, map[string]string{"newsletter_id": n.ID})
		return false, false
	}
	if !claimed {
		s.Logger.Debugw("newsletter already claimed", "newsletter_id", n.ID)
		return false, false
	}

	// the row is ours now; finalizing must not depend on the caller staying connected
	finalizeCtx := context.WithoutCancel(ctx)

	recipients, err := s.deliver(ctx, n)
	if err == nil {
		err = s.NewsletterRepo.MarkSent(finalizeCtx, n.ID, now, recipients)
		if err == nil {
			s.Metrics.NewslettersSent.Inc()
			s.Logger.Infow("newsletter sent", "newsletter_id", n.ID, "recipients", recipients)
			return true, true
		}
		s.Logger.Errorw("failed to mark newsletter sent", "newsletter_id", n.ID, "recipients", recipients, "error", err)
		err = ierr.WithError(err).
			WithMessagef("delivered to %d recipients but the status update failed", recipients).
			Mark(ierr.ErrDatabase)
	}

	s.Metrics.NewslettersFailed.Inc()
	s.Logger.Errorw("newsletter failed", "newsletter_id", n.ID, "error", err)
	s.Sentry.CaptureWithTags(err, map[string]string{"newsletter_id": n.ID})

	if markErr := s.NewsletterRepo.MarkFailed(finalizeCtx, n.ID, err.Error()); markErr != nil {
		// left processing; the next sweep expires the claim
		s.Logger.Errorw("failed to mark newsletter failed", "newsletter_id", n.ID, "error", markErr)
	}
	return true, false
}

// deliver sends a claimed newsletter and returns how many recipients received it
func (s *scheduledContentService) deliver(ctx context.Context, n *newsletter.ScheduledNewsletter) (int, error) {
	recipients, err := loadRecipients(ctx, s.ServiceParams)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	content, err := s.EmailService.RenderNewsletter(n.Subject, n.Message)
	if err != nil {
		return 0, err
	}

	result := s.dispatcher.Dispatch(ctx, content, recipients)
	if result.AllFailed() {
		return 0, ierr.WithError(result.FirstErr).
			WithMessagef("all %d deliveries failed", result.Failed).
			Mark(ierr.ErrHTTPClient)
	}

	if result.Failed > 0 {
		s.Logger.Warnw("newsletter partially delivered",
			"newsletter_id", n.ID,
			"sent", result.Sent,
			"failed", result.Failed,
		)
	}
	return result.Sent, nil
}

func (s *scheduledContentService) publishPosts(ctx context.Context, now time.Time) int {
	due, err := s.BlogRepo.ListDueForPublish(ctx, now)
	if err != nil {
		s.Logger.Errorw("failed to list scheduled blog posts", "error", err)
		s.Sentry.CaptureException(err)
		return 0
	}

	published := 0
	for _, post := range due {
		changed, err := s.BlogRepo.PublishIfDue(ctx, post.ID, now)
		if err != nil {
			s.Logger.Errorw("failed to publish blog post", "post_id", post.ID, "error", err)
			s.Sentry.CaptureWithTags(err, map[string]string{"post_id": post.ID})
			continue
		}
		if !changed {
			continue
		}

		published++
		s.Metrics.PostsPublished.Inc()
		s.Logger.Infow("blog post published", "post_id", post.ID, "slug", post.Slug)
	}

	if published > 0 {
		invalidateBlogCache(ctx, s.Cache)
	}
	return published
}

func invalidateBlogCache(ctx context.Context, c cache.Cache) {
	c.DeleteByPrefix(ctx, cache.PrefixBlogPost)
	c.DeleteByPrefix(ctx, cache.PrefixBlogList)
}
