package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"github.com/upassistify/upassistify/internal/api/dto"
	"github.com/upassistify/upassistify/internal/domain/newsletter"
	"github.com/upassistify/upassistify/internal/domain/user"
	"github.com/upassistify/upassistify/internal/email"
	ierr "github.com/upassistify/upassistify/internal/errors"
	"github.com/upassistify/upassistify/internal/metrics"
	"github.com/upassistify/upassistify/internal/types"
	"golang.org/x/time/rate"
)

// DispatchResult counts per-recipient delivery outcomes
type DispatchResult struct {
	Sent     int
	Failed   int
	FirstErr error
}

// AllFailed reports whether there were recipients and none of them got the newsletter
func (r DispatchResult) AllFailed() bool {
	return r.Sent == 0 && r.Failed > 0
}

// NewsletterDispatcher fans a rendered newsletter out to its recipients
type NewsletterDispatcher interface {
	Dispatch(ctx context.Context, content *email.NewsletterContent, recipients []string) DispatchResult
}

type newsletterDispatcher struct {
	ServiceParams
	concurrency int
	limiter     *rate.Limiter
}

// NewNewsletterDispatcher sends with at most email.newsletter_concurrency requests in flight
// and no more than email.newsletter_rate_per_second sends per second.
func NewNewsletterDispatcher(params ServiceParams) NewsletterDispatcher {
	concurrency := params.Config.Email.NewsletterConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	limit := rate.Inf
	if perSecond := params.Config.Email.NewsletterRatePerSecond; perSecond > 0 {
		limit = rate.Limit(perSecond)
	}

	return &newsletterDispatcher{
		ServiceParams: params,
		concurrency:   concurrency,
		limiter:       rate.NewLimiter(limit, 1),
	}
}

func (d *newsletterDispatcher) Dispatch(ctx context.Context, content *email.NewsletterContent, recipients []string) DispatchResult {
	var (
		sent, failed atomic.Int64
		once         sync.Once
		firstErr     error
	)

	p := pool.New().WithMaxGoroutines(d.concurrency)
	for _, to := range recipients {
		p.Go(func() {
			err := d.limiter.Wait(ctx)
			if err == nil {
				err = d.EmailService.SendNewsletter(ctx, to, content)
			}
			if err != nil {
				failed.Add(1)
				once.Do(func() { firstErr = err })
				d.Metrics.EmailsSent.WithLabelValues("newsletter", metrics.OutcomeError).Inc()
				d.Logger.Warnw("newsletter delivery failed", "to", to, "error", err)
				return
			}
			sent.Add(1)
			d.Metrics.EmailsSent.WithLabelValues("newsletter", metrics.OutcomeSuccess).Inc()
		})
	}
	p.Wait()

	return DispatchResult{
		Sent:     int(sent.Load()),
		Failed:   int(failed.Load()),
		FirstErr: firstErr,
	}
}

// NewsletterService manages scheduled and immediate newsletters
type NewsletterService interface {
	ScheduleNewsletter(ctx context.Context, req dto.ScheduleNewsletterRequest) (*dto.NewsletterResponse, error)
	ListNewsletters(ctx context.Context, filter *newsletter.Filter) (*dto.ListNewslettersResponse, error)

	// SendNewsletter delivers right away to the given recipients, or to every profile when none are given
	SendNewsletter(ctx context.Context, req dto.SendNewsletterRequest) (*dto.SendNewsletterResponse, error)
}

type newsletterService struct {
	ServiceParams
	dispatcher NewsletterDispatcher
}

func NewNewsletterService(params ServiceParams, dispatcher NewsletterDispatcher) NewsletterService {
	return &newsletterService{ServiceParams: params, dispatcher: dispatcher}
}

func (s *newsletterService) ScheduleNewsletter(ctx context.Context, req dto.ScheduleNewsletterRequest) (*dto.NewsletterResponse, error) {
	now := time.Now().UTC()
	if err := req.Validate(now); err != nil {
		return nil, err
	}

	n := req.ToNewsletter(types.GetUserID(ctx), now)
	if err := s.NewsletterRepo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.Logger.Infow("newsletter scheduled", "newsletter_id", n.ID, "scheduled_for", n.ScheduledFor)
	return &dto.NewsletterResponse{ScheduledNewsletter: n}, nil
}

func (s *newsletterService) ListNewsletters(ctx context.Context, filter *newsletter.Filter) (*dto.ListNewslettersResponse, error) {
	if filter == nil {
		filter = &newsletter.Filter{}
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.QueryFilter.Validate(); err != nil {
		return nil, err
	}

	items, err := s.NewsletterRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.NewsletterRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListNewslettersResponse{
		Items: lo.Map(items, func(n *newsletter.ScheduledNewsletter, _ int) *dto.NewsletterResponse {
			return &dto.NewsletterResponse{ScheduledNewsletter: n}
		}),
		Total:  total,
		Limit:  filter.GetLimit(),
		Offset: filter.GetOffset(),
	}, nil
}

func (s *newsletterService) SendNewsletter(ctx context.Context, req dto.SendNewsletterRequest) (*dto.SendNewsletterResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	recipients := req.Recipients
	if len(recipients) == 0 {
		var err error
		recipients, err = loadRecipients(ctx, s.ServiceParams)
		if err != nil {
			return nil, err
		}
	}
	recipients = lo.Uniq(recipients)

	if len(recipients) == 0 {
		s.Logger.Infow("newsletter has no recipients", "subject", req.Subject)
		return &dto.SendNewsletterResponse{Success: true}, nil
	}

	content, err := s.EmailService.RenderNewsletter(req.Subject, req.Message)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to render newsletter").
			Mark(ierr.ErrInternal)
	}

	result := s.dispatcher.Dispatch(ctx, content, recipients)
	s.Logger.Infow("newsletter sent",
		"subject", req.Subject,
		"sent", result.Sent,
		"failed", result.Failed,
		"user_id", types.GetUserID(ctx),
	)

	return &dto.SendNewsletterResponse{
		Success: true,
		Sent:    result.Sent,
		Failed:  result.Failed,
	}, nil
}

// loadRecipients returns the distinct email addresses of every profile
func loadRecipients(ctx context.Context, p ServiceParams) ([]string, error) {
	profiles, err := p.ProfileRepo.ListRecipients(ctx)
	if err != nil {
		p.Logger.Errorw("failed to load newsletter recipients", "error", err)
		return nil, err
	}
	return lo.Uniq(lo.Map(profiles, func(u *user.Profile, _ int) string { return u.Email })), nil
}
