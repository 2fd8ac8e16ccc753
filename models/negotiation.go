package models

import (
	"errors"
	"time"
)

type NegotiationStatus string

const (
	NegotiationOpen     NegotiationStatus = "open"
	NegotiationAccepted NegotiationStatus = "accepted"
)

var (
	ErrNegotiationClosed = errors.New("negotiation is no longer open")
	ErrEmptyMessage      = errors.New("message needs text or a price")
	ErrNotParticipant    = errors.New("not a participant of this negotiation")
)

// NegotiationMessage is one entry of the bargaining thread. The slice order
// is the conversation order; entries are never edited or reordered.
type NegotiationMessage struct {
	SenderID string    `json:"sender" bson:"sender"`
	Text     string    `json:"text,omitempty" bson:"text,omitempty"`
	Price    *float64  `json:"price,omitempty" bson:"price,omitempty"`
	SentAt   time.Time `json:"sentAt" bson:"sentAt"`
}

// Negotiation is the single bargaining session between one customer and the
// farmer of one product. At most one session exists per (product, customer).
type Negotiation struct {
	NegotiationID string               `json:"_id" bson:"negotiationid"`
	ProductID     string               `json:"productId" bson:"productid"`
	FarmerID      string               `json:"farmerId" bson:"farmerid"`
	CustomerID    string               `json:"customerId" bson:"customerid"`
	Status        NegotiationStatus    `json:"status" bson:"status"`
	Messages      []NegotiationMessage `json:"messages" bson:"messages"`
	FinalPrice    *float64             `json:"finalPrice,omitempty" bson:"finalprice,omitempty"`
	Version       int64                `json:"version" bson:"version"`
	CreatedAt     time.Time            `json:"createdAt" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updatedAt" bson:"updated_at"`
}

func (n *Negotiation) IsParticipant(userID string) bool {
	return userID == n.CustomerID || userID == n.FarmerID
}

// AppendMessage adds a message from sender while the session is open.
func (n *Negotiation) AppendMessage(senderID, text string, price *float64) error {
	if n.Status != NegotiationOpen {
		return ErrNegotiationClosed
	}
	if !n.IsParticipant(senderID) {
		return ErrNotParticipant
	}
	if text == "" && price == nil {
		return ErrEmptyMessage
	}
	n.Messages = append(n.Messages, NegotiationMessage{
		SenderID: senderID,
		Text:     text,
		Price:    price,
		SentAt:   time.Now(),
	})
	n.UpdatedAt = time.Now()
	return nil
}

// LastOfferedPrice returns the most recent priced message, if any.
func (n *Negotiation) LastOfferedPrice() (float64, bool) {
	for i := len(n.Messages) - 1; i >= 0; i-- {
		if n.Messages[i].Price != nil {
			return *n.Messages[i].Price, true
		}
	}
	return 0, false
}

// Accept transitions open → accepted, one-way. finalPrice falls back to the
// last offered price in the thread when the caller sends none. A second
// accept fails and leaves FinalPrice untouched.
func (n *Negotiation) Accept(callerID string, finalPrice *float64) error {
	if !n.IsParticipant(callerID) {
		return ErrNotParticipant
	}
	if n.Status != NegotiationOpen {
		return ErrNegotiationClosed
	}
	price := finalPrice
	if price == nil {
		if last, ok := n.LastOfferedPrice(); ok {
			price = &last
		} else {
			return errors.New("no price offered and none supplied")
		}
	}
	n.Status = NegotiationAccepted
	n.FinalPrice = price
	n.UpdatedAt = time.Now()
	return nil
}
