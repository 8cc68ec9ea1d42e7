package archive

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/tornadohq/posreport/internal/models"
)

// RunEvent is the summary published after each report run so downstream
// consumers can track reporting activity without parsing PDFs.
type RunEvent struct {
	RunID            string    `json:"run_id"`
	Kind             string    `json:"kind"`
	PeriodLabel      string    `json:"period_label"`
	PeriodStart      time.Time `json:"period_start"`
	PeriodEnd        time.Time `json:"period_end"`
	TotalRevenue     string    `json:"total_revenue"`
	TransactionCount int       `json:"transaction_count"`
	TotalItemsSold   string    `json:"total_items_sold"`
	Growth           string    `json:"growth,omitempty"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// NewRunEvent flattens a snapshot into the event payload.
func NewRunEvent(snap *models.Snapshot, kind, periodLabel string, generatedAt time.Time) RunEvent {
	ev := RunEvent{
		RunID:            snap.RunID,
		Kind:             kind,
		PeriodLabel:      periodLabel,
		PeriodStart:      snap.Period.Start,
		PeriodEnd:        snap.Period.End,
		TotalRevenue:     snap.Invoices.TotalRevenue.StringFixed(2),
		TransactionCount: snap.Invoices.TransactionCount,
		TotalItemsSold:   snap.Sales.TotalItemsSold.String(),
		GeneratedAt:      generatedAt,
	}
	if snap.Growth != nil {
		ev.Growth = snap.Growth.StringFixed(1)
	}
	return ev
}

// KafkaPublisher publishes run events through a sarama sync producer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

// NewKafkaPublisher connects to the configured brokers. Returns (nil, nil)
// when no broker list is configured.
func NewKafkaPublisher(cfg models.ArchiveConfig, logger *zap.Logger) (*KafkaPublisher, error) {
	if cfg.KafkaBrokerList == "" {
		return nil, nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	topic := cfg.KafkaTopic
	if topic == "" {
		topic = "posreport.runs"
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Retry.Backoff = 100 * time.Millisecond
	saramaConfig.Producer.Return.Successes = true // Must be true for SyncProducer
	saramaConfig.Net.DialTimeout = 30 * time.Second
	saramaConfig.Net.ReadTimeout = 30 * time.Second
	saramaConfig.Net.WriteTimeout = 30 * time.Second

	brokerList := strings.Split(cfg.KafkaBrokerList, ",")
	producer, err := sarama.NewSyncProducer(brokerList, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Sarama producer: %w", err)
	}

	logger.Info("run event publishing enabled",
		zap.Strings("brokers", brokerList),
		zap.String("topic", topic))
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}, nil
}

func (p *KafkaPublisher) Publish(event RunEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding run event: %w", err)
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.RunID),
		Value: sarama.ByteEncoder(payload),
	})
	if err != nil {
		p.logger.Error("failed to publish run event", zap.Error(err))
		return err
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
