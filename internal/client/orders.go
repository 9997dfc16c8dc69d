package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/rogerio-castellano/vendor-inventory/internal/models"
)

// ErrUnknownOrderEvent is returned for order events the API does not accept.
var ErrUnknownOrderEvent = errors.New("unknown order event")

// Order lifecycle events accepted under /orders.
const (
	OrderPlaced    = "placed"
	OrderConfirmed = "confirmed"
	OrderCancelled = "cancelled"
	OrderRefunded  = "refunded"
)

type Orders struct {
	c *Client
}

func NewOrders(c *Client) *Orders {
	return &Orders{c: c}
}

// Send forwards an order event by name.
func (o *Orders) Send(ctx context.Context, event string, e models.OrderEvent) (Ack, error) {
	switch event {
	case OrderPlaced, OrderConfirmed, OrderCancelled, OrderRefunded:
	default:
		return nil, ErrUnknownOrderEvent
	}
	return o.c.mutate(ctx, http.MethodPost, "/orders/"+event, e)
}

func (o *Orders) Placed(ctx context.Context, e models.OrderEvent) (Ack, error) {
	return o.Send(ctx, OrderPlaced, e)
}

func (o *Orders) Confirmed(ctx context.Context, e models.OrderEvent) (Ack, error) {
	return o.Send(ctx, OrderConfirmed, e)
}

func (o *Orders) Cancelled(ctx context.Context, e models.OrderEvent) (Ack, error) {
	return o.Send(ctx, OrderCancelled, e)
}

func (o *Orders) Refunded(ctx context.Context, e models.OrderEvent) (Ack, error) {
	return o.Send(ctx, OrderRefunded, e)
}

type Transactions struct {
	c *Client
}

func NewTransactions(c *Client) *Transactions {
	return &Transactions{c: c}
}

// History returns the vendor's transaction log as sent by the server.
func (t *Transactions) History(ctx context.Context, q url.Values) (json.RawMessage, error) {
	var raw json.RawMessage
	err := t.c.Do(ctx, http.MethodGet, withQuery("/transactions", q), nil, &raw)
	return raw, err
}

type Vendor struct {
	c *Client
}

func NewVendor(c *Client) *Vendor {
	return &Vendor{c: c}
}

func (v *Vendor) Profile(ctx context.Context) (models.VendorProfile, error) {
	var profile models.VendorProfile
	err := v.c.Do(ctx, http.MethodGet, "/vendor/profile", nil, &profile)
	return profile, err
}

func (v *Vendor) UpdateProfile(ctx context.Context, profile models.VendorProfile) (Ack, error) {
	return v.c.mutate(ctx, http.MethodPut, "/vendor/profile", profile)
}
