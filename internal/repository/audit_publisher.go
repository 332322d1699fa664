package repository

import (
	"context"
	"time"

	"PriceSigner/internal/domain/models"
	"PriceSigner/internal/domain/repository"
	"PriceSigner/pkg/decimalfloat"
	pkgkafka "PriceSigner/pkg/kafka"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/segmentio/kafka-go"
)

const eventSignedContext = "signed_context"

// SignedContextEvent is the audit record of one attestation.
type SignedContextEvent struct {
	Type        string               `json:"type"`
	Signer      string               `json:"signer"`
	Context     []decimalfloat.Float `json:"context"`
	Signature   string               `json:"signature"`
	Direction   string               `json:"direction"`
	Feed        string               `json:"feed"`
	Price       string               `json:"price"`
	FeedPrice   int64                `json:"feed_price"`
	FeedExpo    int32                `json:"feed_expo"`
	Conf        uint64               `json:"conf"`
	PublishTime int64                `json:"publish_time,omitempty"`
	Expiry      uint64               `json:"expiry"`
	SignedAt    time.Time            `json:"signed_at"`
}

// NewSignedContextEvent flattens an attestation for the wire.
func NewSignedContextEvent(a *models.Attestation) SignedContextEvent {
	ev := SignedContextEvent{
		Type:      eventSignedContext,
		Signer:    a.Signer.Hex(),
		Context:   a.Context,
		Signature: hexutil.Encode(a.Signature),
		Direction: a.Direction.String(),
		Feed:      a.Sample.FeedID,
		Price:     a.Sample.String(),
		FeedPrice: a.Sample.Price,
		FeedExpo:  a.Sample.Expo,
		Conf:      a.Sample.Conf,
		Expiry:    a.Expiry,
		SignedAt:  a.SignedAt.UTC(),
	}
	if !a.Sample.PublishTime.IsZero() {
		ev.PublishTime = a.Sample.PublishTime.Unix()
	}
	return ev
}

// KafkaAuditPublisher implements AuditPublisher for Kafka.
type KafkaAuditPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaAuditPublisher creates Kafka publisher.
func NewKafkaAuditPublisher(producer *pkgkafka.Producer, topic string) repository.AuditPublisher {
	return &KafkaAuditPublisher{producer: producer, topic: topic}
}

// Publish keys events by signer so one signer's attestations stay ordered.
func (p *KafkaAuditPublisher) Publish(ctx context.Context, a *models.Attestation) error {
	return p.producer.PublishBatch(ctx, p.topic, []pkgkafka.Message{{
		Key:     a.Signer.Bytes(),
		Value:   NewSignedContextEvent(a),
		Headers: []kafka.Header{{Key: "type", Value: []byte(eventSignedContext)}},
	}})
}

// Close is a no-op: the producer is shared with the log collector and closed by its owner.
func (p *KafkaAuditPublisher) Close() error {
	return nil
}
