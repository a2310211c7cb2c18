package service

import (
	"context"
	"sync"

	"sigmavie-commerce/pkg/logger"

	"go.uber.org/zap"
)

// Notifier delivers one-time codes. SMS and email transports live outside
// this repository; implementations wrap them.
type Notifier interface {
	// SendOTP dispatches the code over every channel in parallel,
	// best-effort. A channel failing is logged and never fatal.
	SendOTP(ctx context.Context, phone, email, code string)
}

// Channel is one delivery transport (SMS gateway, SMTP relay, ...).
type Channel interface {
	Name() string
	Send(ctx context.Context, recipient, code string) error
}

type fanoutNotifier struct {
	sms   Channel
	email Channel
}

// NewNotifier builds the standard two-channel notifier. Either channel may
// be nil when the deployment has no credentials for it.
func NewNotifier(sms, email Channel) Notifier {
	return &fanoutNotifier{sms: sms, email: email}
}

func (n *fanoutNotifier) SendOTP(ctx context.Context, phone, email, code string) {
	var wg sync.WaitGroup
	dispatch := func(ch Channel, recipient string) {
		if ch == nil || recipient == "" {
			return
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ch.Send(ctx, recipient, code); err != nil {
				logger.Get().Warn("otp dispatch failed",
					zap.String("channel", ch.Name()),
					zap.Error(err))
			}
		}()
	}
	dispatch(n.sms, phone)
	dispatch(n.email, email)
	wg.Wait()
}

// LogChannel is the default transport when no gateway is configured: it only
// records that a send would have happened.
type LogChannel struct {
	ChannelName string
}

func (c *LogChannel) Name() string { return c.ChannelName }

func (c *LogChannel) Send(ctx context.Context, recipient, code string) error {
	logger.Get().Info("otp send (no gateway configured)",
		zap.String("channel", c.ChannelName),
		zap.String("recipient", recipient))
	return nil
}
