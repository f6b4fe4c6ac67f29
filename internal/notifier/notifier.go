// Package notifier carries user-facing notices out of the core. Notices are
// published to a kafka topic and relayed to the messaging transport by a
// consumer; delivery is fire-and-forget from the core's perspective.
package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"storefront-bot/internal/entity"
)

type Type string

const (
	TypeOrderCreated    Type = "order_created"
	TypeStatusChanged   Type = "status_changed"
	TypeDiscountRequest Type = "discount_request"
)

type Audience string

const (
	AudienceAdmins   Audience = "admins"
	AudienceCustomer Audience = "customer"
)

type Notice struct {
	Type       Type     `json:"type"`
	Audience   Audience `json:"audience"`
	CustomerID int64    `json:"customer_id,omitempty"`
	Text       string   `json:"text"`
}

// Publisher hands a notice off for delivery. Implementations must not block
// on the eventual transport send.
type Publisher interface {
	Publish(ctx context.Context, notice Notice) error
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(writer *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: writer}
}

func (p *KafkaPublisher) Publish(ctx context.Context, notice Notice) error {
	data, err := json.Marshal(notice)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("notice-%s-%d", notice.Type, notice.CustomerID)),
		Value: data,
	}
	return p.writer.WriteMessages(ctx, msg)
}

func contactLink(customer *entity.Customer) string {
	if customer.Username != "" {
		return "https://t.me/" + customer.Username
	}
	return fmt.Sprintf("tg://user?id=%d", customer.UserID)
}

func itemLines(items []entity.OrderItem) string {
	var text string
	for _, item := range items {
		text += fmt.Sprintf("- %s - %sx - %s\n", item.Name, item.Quantity.String(), item.LineTotal.StringFixed(2))
	}
	return text
}

// OrderCreated builds the admin notice for a freshly committed order.
func OrderCreated(order *entity.Order, customer *entity.Customer) Notice {
	name := customer.FirstName
	if customer.Username != "" {
		name = "@" + customer.Username
	}

	text := fmt.Sprintf("NEW ORDER #%d (%s)\n\n", order.ID, order.Reference) +
		fmt.Sprintf("Customer: %s (id %d)\n", name, customer.UserID) +
		fmt.Sprintf("Contact: %s\n\n", contactLink(customer)) +
		"Items:\n" + itemLines(order.Items) + "\n" +
		fmt.Sprintf("Total: %s\n", order.Total.StringFixed(2)) +
		fmt.Sprintf("Payment: %s\n", order.PaymentMethod) +
		fmt.Sprintf("Address: %s\n", order.DeliveryAddress) +
		fmt.Sprintf("Placed: %s", order.CreatedAt.Format(time.RFC3339))

	return Notice{Type: TypeOrderCreated, Audience: AudienceAdmins, CustomerID: customer.UserID, Text: text}
}

// StatusChanged builds the customer notice for an order status transition.
func StatusChanged(order *entity.Order) Notice {
	text := fmt.Sprintf("Order #%d update\n\n%s", order.ID, order.Status.DisplayText())
	return Notice{Type: TypeStatusChanged, Audience: AudienceCustomer, CustomerID: order.CustomerID, Text: text}
}

// DiscountRequested builds the admin notice for a bulk-discount request. The
// tier is advisory: admins negotiate the actual reduction with the customer.
func DiscountRequested(customer *entity.Customer, cart *entity.Cart, tierPercent int64) Notice {
	name := customer.FirstName
	if customer.Username != "" {
		name = "@" + customer.Username
	}

	var lines string
	for _, l := range cart.Lines {
		lines += fmt.Sprintf("- %s - %sx - %s\n", l.Name, l.Quantity.String(), l.LineTotal().StringFixed(2))
	}

	text := "DISCOUNT REQUEST (bulk)\n\n" +
		fmt.Sprintf("Customer: %s (id %d)\n", name, customer.UserID) +
		fmt.Sprintf("Contact: %s\n\n", contactLink(customer)) +
		"Items:\n" + lines + "\n" +
		fmt.Sprintf("Total quantity: %s\n", cart.TotalQuantity().String()) +
		fmt.Sprintf("Total before discount: %s\n", cart.Total().StringFixed(2)) +
		fmt.Sprintf("Advisory tier: %d%%", tierPercent)

	return Notice{Type: TypeDiscountRequest, Audience: AudienceAdmins, CustomerID: customer.UserID, Text: text}
}
