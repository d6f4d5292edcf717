// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"

	"contextual-chatbot-be/internal/dto"
	"contextual-chatbot-be/internal/repository/memory"
	"contextual-chatbot-be/pkg/events"

	pktNats "contextual-chatbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	jobRepo   *memory.SyncJobRepository
	syncSvc   ISyncService
	natsPub   *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	jobRepo *memory.SyncJobRepository,
	syncSvc ISyncService,
	natsPub *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		jobRepo:   jobRepo,
		syncSvc:   syncSvc,
		natsPub:   natsPub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.WatchSyncJobMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	job, found := cs.jobRepo.Get(payload.JobID)
	if !found {
		log.Printf("[ERROR] Sync job not found: %s", payload.JobID)
		msg.Ack() // Job expired? Ack.
		return
	}

	log.Printf("[INFO] Watching ingestion job %s for user %s", job.ID, job.Owner)

	// PollUntilDone owns the retry/timeout behavior; whatever it returns is
	// final for this message, so we always Ack.
	status, err := cs.syncSvc.PollUntilDone(ctx, job)
	if err != nil {
		log.Printf("[WARN] Ingestion job %s did not complete: %v", job.ID, err)
	} else {
		log.Printf("[SUCCESS] Ingestion job %s finished with status %s", job.ID, status)
	}

	if cs.natsPub != nil {
		event := events.NewIngestionJobFinished(job.ID, job.Owner, string(status))
		if err := cs.natsPub.Publish(ctx, event); err != nil {
			log.Printf("[ERROR] Failed to publish job finished event: %v", err)
		}
	}

	msg.Ack()
}
