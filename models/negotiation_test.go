package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSession() *Negotiation {
	return &Negotiation{
		NegotiationID: "n1",
		ProductID:     "p1",
		FarmerID:      "farmer1",
		CustomerID:    "cust1",
		Status:        NegotiationOpen,
		Messages:      []NegotiationMessage{},
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}

func price(v float64) *float64 { return &v }

func TestNewSessionIsOpenAndEmpty(t *testing.T) {
	n := openSession()
	assert.Equal(t, NegotiationOpen, n.Status)
	assert.Empty(t, n.Messages)
	assert.Nil(t, n.FinalPrice)
}

func TestAppendMessageKeepsConversationOrder(t *testing.T) {
	n := openSession()
	require.NoError(t, n.AppendMessage("cust1", "would you take less?", price(40)))
	require.NoError(t, n.AppendMessage("farmer1", "best I can do is 45", price(45)))
	require.NoError(t, n.AppendMessage("cust1", "deal", nil))

	require.Len(t, n.Messages, 3)
	assert.Equal(t, "cust1", n.Messages[0].SenderID)
	assert.Equal(t, "farmer1", n.Messages[1].SenderID)
	assert.Equal(t, "deal", n.Messages[2].Text)
}

func TestAppendMessageValidation(t *testing.T) {
	n := openSession()
	assert.ErrorIs(t, n.AppendMessage("cust1", "", nil), ErrEmptyMessage)
	assert.ErrorIs(t, n.AppendMessage("stranger", "hi", nil), ErrNotParticipant)
	assert.Empty(t, n.Messages)
}

func TestLastOfferedPrice(t *testing.T) {
	n := openSession()
	_, ok := n.LastOfferedPrice()
	assert.False(t, ok)

	require.NoError(t, n.AppendMessage("cust1", "", price(40)))
	require.NoError(t, n.AppendMessage("farmer1", "thinking about it", nil))
	require.NoError(t, n.AppendMessage("farmer1", "", price(45)))

	last, ok := n.LastOfferedPrice()
	require.True(t, ok)
	assert.Equal(t, 45.0, last)
}

func TestAcceptWithExplicitPrice(t *testing.T) {
	n := openSession()
	require.NoError(t, n.AppendMessage("cust1", "", price(40)))

	require.NoError(t, n.Accept("farmer1", price(45)))
	assert.Equal(t, NegotiationAccepted, n.Status)
	require.NotNil(t, n.FinalPrice)
	assert.Equal(t, 45.0, *n.FinalPrice)
}

func TestAcceptDefaultsToLastOffer(t *testing.T) {
	n := openSession()
	require.NoError(t, n.AppendMessage("cust1", "", price(40)))
	require.NoError(t, n.AppendMessage("farmer1", "", price(42)))

	require.NoError(t, n.Accept("cust1", nil))
	require.NotNil(t, n.FinalPrice)
	assert.Equal(t, 42.0, *n.FinalPrice)
}

func TestAcceptWithoutAnyPriceFails(t *testing.T) {
	n := openSession()
	require.NoError(t, n.AppendMessage("cust1", "hello", nil))

	assert.Error(t, n.Accept("farmer1", nil))
	assert.Equal(t, NegotiationOpen, n.Status)
}

func TestSecondAcceptRejectedAndPriceUnchanged(t *testing.T) {
	n := openSession()
	require.NoError(t, n.Accept("farmer1", price(45)))

	err := n.Accept("cust1", price(10))
	assert.ErrorIs(t, err, ErrNegotiationClosed)
	require.NotNil(t, n.FinalPrice)
	assert.Equal(t, 45.0, *n.FinalPrice, "a failed accept must not move the agreed price")
}

func TestMessageAfterAcceptRejected(t *testing.T) {
	n := openSession()
	require.NoError(t, n.Accept("farmer1", price(45)))

	err := n.AppendMessage("cust1", "actually...", nil)
	assert.ErrorIs(t, err, ErrNegotiationClosed)
	assert.Empty(t, n.Messages)
}

func TestAcceptByNonParticipant(t *testing.T) {
	n := openSession()
	assert.ErrorIs(t, n.Accept("stranger", price(45)), ErrNotParticipant)
	assert.Equal(t, NegotiationOpen, n.Status)
}
