package service

import (
	"context"
	"time"

	"paper-assistant-be/internal/pkg/logger"
	"paper-assistant-be/internal/pkg/mailer"
	"paper-assistant-be/internal/repository/specification"
	"paper-assistant-be/internal/repository/unitofwork"
	"paper-assistant-be/pkg/events"
	pktNats "paper-assistant-be/pkg/nats"
)

type IDigestService interface {
	// SendDailyDigest mails the papers published in the last 24 hours and
	// returns how many were included. An empty day sends nothing.
	SendDailyDigest(ctx context.Context) (int, error)
}

type digestService struct {
	uowFactory     unitofwork.RepositoryFactory
	mailer         mailer.IDigestMailer
	eventPublisher *pktNats.Publisher
	recipient      string
	logger         logger.ILogger
}

func NewDigestService(
	uowFactory unitofwork.RepositoryFactory,
	digestMailer mailer.IDigestMailer,
	eventPublisher *pktNats.Publisher,
	recipient string,
	log logger.ILogger,
) IDigestService {
	return &digestService{
		uowFactory:     uowFactory,
		mailer:         digestMailer,
		eventPublisher: eventPublisher,
		recipient:      recipient,
		logger:         log,
	}
}

func (s *digestService) SendDailyDigest(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	papers, err := uow.PaperRepository().FindAll(ctx,
		specification.PublishedSince{Cutoff: time.Now().Add(-24 * time.Hour)},
		specification.OrderBy{Field: "published", Desc: true},
	)
	if err != nil {
		return 0, err
	}
	if len(papers) == 0 {
		s.logger.Info("DigestService", "No new papers, digest skipped", nil)
		return 0, nil
	}

	if err := s.mailer.SendDailyDigest(s.recipient, papers); err != nil {
		return 0, err
	}

	s.logger.Info("DigestService", "Digest sent", map[string]interface{}{
		"papers":    len(papers),
		"recipient": s.recipient,
	})

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, events.NewDigestSent(len(papers), s.recipient)); err != nil {
			s.logger.Warn("DigestService", "Publish digest event failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return len(papers), nil
}
