// Marquee - Movie and Friend Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
)

// InlinePublisher runs each job in the publishing goroutine through the
// worker's handler instead of handing it to a transport. CLI commands use
// it with the gochannel transport, where no router outlives the command.
//
// Handler errors are returned to the publisher; there is no retry and no
// poison queue.
type InlinePublisher struct {
	worker *Worker
}

var _ JobPublisher = (*InlinePublisher)(nil)

// NewInlinePublisher creates an InlinePublisher for w.
func NewInlinePublisher(w *Worker) *InlinePublisher {
	return &InlinePublisher{worker: w}
}

// Publish implements JobPublisher.
func (p *InlinePublisher) Publish(ctx context.Context, topic string, msg *message.Message) error {
	kind, err := ParseJobKind(topic)
	if err != nil {
		return err
	}
	if !p.handles(kind) {
		return fmt.Errorf("%w: %s has no handler in this process", ErrUnknownJob, kind)
	}
	msg.SetContext(ctx)
	return p.worker.Handler(kind)(msg)
}

func (p *InlinePublisher) handles(kind JobKind) bool {
	for _, k := range p.worker.Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}
