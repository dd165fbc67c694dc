package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

const defaultPublishTimeout = 10 * time.Second

type publisher interface {
	Publish(ctx context.Context, msg *gcppubsub.Message) publishResult
}

type publishResult interface {
	Get(ctx context.Context) (string, error)
}

// PubSubTransport hands the cart snapshot to a Pub/Sub topic. A publish
// acknowledged by the server counts as a successful checkout.
type PubSubTransport struct {
	pub     publisher
	timeout time.Duration
}

func NewPubSubTransport(p *gcppubsub.Publisher, timeout time.Duration) (*PubSubTransport, error) {
	if p == nil {
		return nil, errors.New("pubsub publisher required")
	}
	return newPubSubTransport(&gcpPublisher{Publisher: p}, timeout), nil
}

func newPubSubTransport(pub publisher, timeout time.Duration) *PubSubTransport {
	if timeout <= 0 {
		timeout = defaultPublishTimeout
	}
	return &PubSubTransport{pub: pub, timeout: timeout}
}

func (t *PubSubTransport) Checkout(ctx context.Context, req Request) (Result, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode checkout message")
	}

	msg := &gcppubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"checkout_id":  req.ID,
			"event_type":   "cart.checkout_requested",
			"line_count":   strconv.Itoa(len(req.Items)),
			"requested_at": req.RequestedAt.Format(time.RFC3339Nano),
		},
	}

	publishCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	result := t.pub.Publish(publishCtx, msg)
	if result == nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeDependency, "publisher returned no result")
	}
	if _, err := result.Get(publishCtx); err != nil {
		return Result{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "publish checkout")
	}
	return Result{Success: true}, nil
}

type gcpPublisher struct {
	*gcppubsub.Publisher
}

func (p *gcpPublisher) Publish(ctx context.Context, msg *gcppubsub.Message) publishResult {
	if p == nil || p.Publisher == nil {
		return nil
	}
	return p.Publisher.Publish(ctx, msg)
}
