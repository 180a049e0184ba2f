package worker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/magazine-service/internal/domain"
	"github.com/spec-kit/magazine-service/internal/mail"
	"github.com/spec-kit/magazine-service/internal/repository"
	"github.com/spec-kit/magazine-service/internal/service"
)

// DailyReportJob aggregates platform counters once a day, records them
// in the activity log, and mails the report to the admin address when
// one is configured.
type DailyReportJob struct {
	subscriptions repository.SubscriptionRepository
	comments      repository.CommentRepository
	users         repository.UserRepository
	activity      *service.ActivityService
	mailer        mail.Mailer
	logger        *zap.Logger
	adminAddr     string
}

// NewDailyReportJob constructs the job.
func NewDailyReportJob(
	subscriptions repository.SubscriptionRepository,
	comments repository.CommentRepository,
	users repository.UserRepository,
	activity *service.ActivityService,
	mailer mail.Mailer,
	logger *zap.Logger,
	adminAddr string,
) *DailyReportJob {
	return &DailyReportJob{
		subscriptions: subscriptions,
		comments:      comments,
		users:         users,
		activity:      activity,
		mailer:        mailer,
		logger:        logger,
		adminAddr:     adminAddr,
	}
}

func (j *DailyReportJob) Name() string { return "daily-report" }

// Report holds one day's aggregated counters.
type Report struct {
	Subscriptions   map[domain.SubscriptionStatus]int
	CommentsTotal   int
	CommentsPending int
	UsersTotal      int
	UsersNewToday   int
}

// Run builds and records the report for the current day.
func (j *DailyReportJob) Run(ctx context.Context) error {
	report, err := j.build(ctx, time.Now())
	if err != nil {
		return err
	}

	meta := map[string]any{
		"commentsTotal":   report.CommentsTotal,
		"commentsPending": report.CommentsPending,
		"usersTotal":      report.UsersTotal,
		"usersNewToday":   report.UsersNewToday,
	}
	for status, count := range report.Subscriptions {
		meta["subscriptions"+titleCase(string(status))] = count
	}
	j.activity.Log(ctx, "daily.report.generated", nil, meta)

	if j.adminAddr != "" && j.mailer != nil {
		if err := j.mailer.Send(ctx, j.adminAddr, "Daily Platform Report", renderReport(report)); err != nil {
			j.logger.Warn("failed to send daily report email", zap.Error(err))
		}
	}

	j.logger.Info("daily report generated",
		zap.Int("users_total", report.UsersTotal),
		zap.Int("users_new_today", report.UsersNewToday),
		zap.Int("comments_pending", report.CommentsPending))
	return nil
}

func (j *DailyReportJob) build(ctx context.Context, now time.Time) (*Report, error) {
	report := &Report{Subscriptions: make(map[domain.SubscriptionStatus]int)}

	for _, status := range []domain.SubscriptionStatus{
		domain.SubscriptionStatusPending,
		domain.SubscriptionStatusActive,
		domain.SubscriptionStatusExpired,
		domain.SubscriptionStatusCancelled,
	} {
		count, err := j.subscriptions.CountByStatus(ctx, status)
		if err != nil {
			return nil, fmt.Errorf("count %s subscriptions: %w", status, err)
		}
		report.Subscriptions[status] = count
	}

	var err error
	if report.CommentsTotal, err = j.comments.Count(ctx); err != nil {
		return nil, fmt.Errorf("count comments: %w", err)
	}
	if report.CommentsPending, err = j.comments.CountPending(ctx); err != nil {
		return nil, fmt.Errorf("count pending comments: %w", err)
	}
	if report.UsersTotal, err = j.users.Count(ctx); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if report.UsersNewToday, err = j.users.CountCreatedSince(ctx, midnight); err != nil {
		return nil, fmt.Errorf("count new users: %w", err)
	}
	return report, nil
}

func renderReport(report *Report) string {
	var rows strings.Builder
	for _, status := range []domain.SubscriptionStatus{
		domain.SubscriptionStatusPending,
		domain.SubscriptionStatusActive,
		domain.SubscriptionStatusExpired,
		domain.SubscriptionStatusCancelled,
	} {
		fmt.Fprintf(&rows, "<li>%s subscriptions: %d</li>", titleCase(string(status)), report.Subscriptions[status])
	}
	fmt.Fprintf(&rows, "<li>Comments: %d (%d pending)</li>", report.CommentsTotal, report.CommentsPending)
	fmt.Fprintf(&rows, "<li>Users: %d (%d new today)</li>", report.UsersTotal, report.UsersNewToday)
	return mail.RenderTemplate("Daily Platform Report", "<ul>"+rows.String()+"</ul>")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
