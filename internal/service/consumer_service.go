package service

import (
	"context"
	"encoding/json"
	"log"

	"paper-assistant-be/internal/dto"
	"paper-assistant-be/internal/repository/specification"
	"paper-assistant-be/internal/repository/unitofwork"
	"paper-assistant-be/pkg/vectorindex"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the paper-ingested topic and embeds each paper
// into the vector index, decoupling ingestion latency from embedding
// latency.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	index      vectorindex.Index
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	index vectorindex.Index,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		index:      index,
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
	var payload dto.PublishIndexPaperMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing paper %s", payload.PaperId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	paper, err := uow.PaperRepository().FindOne(ctx, specification.ByPaperID{PaperID: payload.PaperId})
	if err != nil {
		log.Printf("[ERROR] Failed to load paper %s: %v", payload.PaperId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if paper == nil {
		log.Printf("[WARN] Paper not found, skipping: %s", payload.PaperId)
		msg.Ack() // Deleted in the meantime? Ack.
		return
	}

	if err := cs.index.IndexPaper(ctx, paper); err != nil {
		log.Printf("[ERROR] Failed to index paper %s: %v", payload.PaperId, err)
		msg.Nack()
		return
	}

	if err := uow.PaperRepository().MarkIndexed(ctx, paper.Id); err != nil {
		log.Printf("[ERROR] Failed to mark paper %s indexed: %v", payload.PaperId, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Paper %s indexed", payload.PaperId)
	msg.Ack()
}
