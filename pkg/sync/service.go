package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Titan-M/mailsift/pkg/classify"
	"github.com/Titan-M/mailsift/pkg/extract"
	"github.com/Titan-M/mailsift/pkg/gmail"
	"github.com/Titan-M/mailsift/pkg/repository"
	"github.com/Titan-M/mailsift/pkg/types"
)

// Classifier is the narrow classification surface the orchestrator needs
type Classifier interface {
	Classify(ctx context.Context, subject, body, sender string) types.ClassificationResult
}

var _ Classifier = (*classify.Classifier)(nil)

// Pacer delays between external calls so the classification backend's rate
// limits are respected. Injectable so tests don't really wait.
type Pacer func(ctx context.Context) error

// NewDelayPacer returns a context-aware fixed-delay pacer
func NewDelayPacer(delay time.Duration) Pacer {
	return func(ctx context.Context) error {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}
}

// Service drives one sync run: fetch a bounded batch, pipe each message
// through extraction, classification, and dedup/persist, and aggregate a
// report. Messages are processed strictly sequentially; a failure on one
// message never aborts the batch.
type Service struct {
	source     gmail.Source
	classifier Classifier
	repo       repository.BackendRepository
	pacer      Pacer
}

func New(source gmail.Source, classifier Classifier, repo repository.BackendRepository, pacer Pacer) *Service {
	if pacer == nil {
		pacer = NewDelayPacer(100 * time.Millisecond)
	}
	return &Service{
		source:     source,
		classifier: classifier,
		repo:       repo,
		pacer:      pacer,
	}
}

// Run syncs up to limit recent messages for the credential's user. A source
// fetch failure is fatal to the run; everything after that degrades
// per-message. Calling Run repeatedly is safe: already-ingested messages
// are skipped by the (user_id, gmail_id) dedup key.
func (s *Service) Run(ctx context.Context, creds *types.GmailCredentials, limit int) (*types.SyncReport, error) {
	userId := creds.UserId

	messages, err := s.source.FetchRecent(ctx, creds, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	report := &types.SyncReport{Total: len(messages)}

	for i := range messages {
		// Cancellation point between messages. Progress already persisted
		// stays valid; the next run skips it as duplicates.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		inserted, err := s.processMessage(ctx, userId, &messages[i])
		switch {
		case err != nil:
			log.Error().Err(err).Str("user_id", userId).Str("gmail_id", messages[i].Id).Msg("error processing message")
			continue
		case inserted:
			report.Processed++
		default:
			report.Skipped++
			continue
		}

		if err := s.pacer(ctx); err != nil {
			return nil, err
		}
	}

	// Best-effort last-sync marker; failure here does not fail the run
	if err := s.repo.UpsertLastSync(ctx, userId, time.Now().UTC()); err != nil {
		log.Warn().Err(err).Str("user_id", userId).Msg("failed to record last sync time")
	}

	log.Info().
		Str("user_id", userId).
		Int("processed", report.Processed).
		Int("skipped", report.Skipped).
		Int("total", report.Total).
		Msg("sync complete")

	return report, nil
}

// processMessage runs one message through the pipeline. Returns whether a
// new record was inserted; an error means the message was neither inserted
// nor recognized as a duplicate.
func (s *Service) processMessage(ctx context.Context, userId string, msg *types.RawMessage) (bool, error) {
	// Cheap pre-check. The DB constraint remains the authoritative guard;
	// this only avoids classifying messages we already have.
	existing, err := s.repo.GetEmailByGmailId(ctx, userId, msg.Id)
	if err != nil {
		return false, fmt.Errorf("dedup lookup: %w", err)
	}
	if existing != nil {
		return false, nil
	}

	content := extract.Extract(msg)
	result := s.classifier.Classify(ctx, content.Subject, content.Body, content.Sender)

	email := &types.Email{
		UserId:     userId,
		GmailId:    msg.Id,
		Subject:    content.Subject,
		Sender:     content.Sender,
		Body:       content.Body,
		Category:   result.Category,
		Priority:   result.Priority,
		Summary:    result.Summary,
		ReceivedAt: content.ReceivedAt,
	}

	if err := s.repo.InsertEmail(ctx, email); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// Lost a race with a concurrent run; the record exists, so
			// this is a skip, not a failure.
			return false, nil
		}
		return false, fmt.Errorf("persist email: %w", err)
	}
	return true, nil
}
