package notifier

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

// Sender is the boundary to the messaging transport. The real implementation
// lives with the bot framework; the core only ships a logging one.
type Sender interface {
	SendToAdmins(ctx context.Context, text string) error
	SendToCustomer(ctx context.Context, userID int64, text string) error
}

// LogSender stands in for the transport during development: it logs every
// notice instead of delivering it.
type LogSender struct{}

func (LogSender) SendToAdmins(ctx context.Context, text string) error {
	log.Info().Str("audience", "admins").Msg(text)
	return nil
}

func (LogSender) SendToCustomer(ctx context.Context, userID int64, text string) error {
	log.Info().Int64("customer_id", userID).Msg(text)
	return nil
}

type Relay struct {
	reader *kafka.Reader
	sender Sender
}

func NewRelay(reader *kafka.Reader, sender Sender) *Relay {
	return &Relay{reader: reader, sender: sender}
}

// Start consumes the notice topic and hands each notice to the transport.
// Delivery failures are logged and dropped: a failed admin ping must never
// roll back the state change that triggered it.
func (r *Relay) Start(ctx context.Context) {
	for {
		msg, err := r.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Msgf("Error reading notice: %v", err)
			continue
		}

		r.deliver(ctx, msg)
	}
}

func (r *Relay) deliver(ctx context.Context, msg kafka.Message) {
	var notice Notice
	if err := json.Unmarshal(msg.Value, &notice); err != nil {
		log.Error().Msgf("Error unmarshalling notice: %v", err)
		return
	}

	var err error
	switch notice.Audience {
	case AudienceCustomer:
		err = r.sender.SendToCustomer(ctx, notice.CustomerID, notice.Text)
	default:
		err = r.sender.SendToAdmins(ctx, notice.Text)
	}
	if err != nil {
		log.Error().Err(err).Str("type", string(notice.Type)).Msg("Error delivering notice")
	}
}
