package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"ncs-viewer-go/internal/config"
	"ncs-viewer-go/internal/services/messaging"
	"ncs-viewer-go/internal/services/publisher"
	"ncs-viewer-go/internal/services/viewer"
)

// ServiceContainer holds all services
type ServiceContainer struct {
	Config       *config.Config
	Messaging    *messaging.Service
	Subscription *messaging.Subscription
	Publisher    *publisher.Service
	Viewer       *viewer.Service
}

// NewServiceContainer connects to the bus and wires the viewer pipeline
func NewServiceContainer(cfg *config.Config) (*ServiceContainer, error) {
	messagingSvc, err := messaging.NewService(cfg, cfg.WorkerID)
	if err != nil {
		return nil, err
	}

	sub, err := messagingSvc.SubscribeSync(cfg.DetectionsSubject, cfg.NatsPendingMsgs)
	if err != nil {
		messagingSvc.Shutdown(context.Background())
		return nil, err
	}

	publisherSvc, err := publisher.NewService(cfg)
	if err != nil {
		messagingSvc.Shutdown(context.Background())
		return nil, err
	}

	viewerSvc, err := viewer.NewService(cfg, sub, publisherSvc, messagingSvc.IsConnected)
	if err != nil {
		messagingSvc.Shutdown(context.Background())
		return nil, err
	}

	return &ServiceContainer{
		Config:       cfg,
		Messaging:    messagingSvc,
		Subscription: sub,
		Publisher:    publisherSvc,
		Viewer:       viewerSvc,
	}, nil
}

// Shutdown drains the bus first so the viewer loop sees the subscription
// close, then releases the sinks
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	var errs []error

	if sc.Messaging != nil {
		if err := sc.Messaging.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if sc.Publisher != nil {
		if err := sc.Publisher.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		log.Warn().Errs("errors", errs).Msg("Service shutdown finished with errors")
	}
	return errors.Join(errs...)
}
