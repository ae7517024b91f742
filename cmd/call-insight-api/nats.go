// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/dialcraft/call-insight-service/internal/domain"
	"github.com/dialcraft/call-insight-service/internal/domain/models"
	"github.com/dialcraft/call-insight-service/internal/infrastructure/store"
	"github.com/dialcraft/call-insight-service/internal/logging"
)

// natsMessage adapts a NATS message to the domain message interface.
type natsMessage struct {
	msg *nats.Msg
}

func (m natsMessage) Subject() string {
	return m.msg.Subject
}

func (m natsMessage) Data() []byte {
	return m.msg.Data
}

func (m natsMessage) Respond(data []byte) error {
	return m.msg.Respond(data)
}

func (m natsMessage) HasReply() bool {
	return m.msg.Reply != ""
}

// keyValueStores holds the JetStream KV buckets of the service.
type keyValueStores struct {
	callRecords     jetstream.KeyValue
	callEvaluations jetstream.KeyValue
	workflowRuns    jetstream.KeyValue
	users           jetstream.KeyValue
	orgSettings     jetstream.KeyValue
}

// setupNATS connects to NATS and prepares JetStream.
func setupNATS(ctx context.Context, natsURL string) (*nats.Conn, jetstream.JetStream, error) {
	conn, err := nats.Connect(natsURL,
		nats.Name("call-insight-api"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.WarnContext(ctx, "NATS disconnected", logging.ErrKey, err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.InfoContext(ctx, "NATS reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, nil, err
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, nil, err
	}

	return conn, js, nil
}

// getKeyValueStores creates or opens the KV buckets the repositories use.
func getKeyValueStores(ctx context.Context, js jetstream.JetStream) (*keyValueStores, error) {
	stores := &keyValueStores{}

	buckets := []struct {
		name   string
		target *jetstream.KeyValue
	}{
		{store.KVStoreNameCallRecords, &stores.callRecords},
		{store.KVStoreNameCallEvaluations, &stores.callEvaluations},
		{store.KVStoreNameWorkflowRuns, &stores.workflowRuns},
		{store.KVStoreNameUsers, &stores.users},
		{store.KVStoreNameOrgSettings, &stores.orgSettings},
	}

	for _, bucket := range buckets {
		kv, err := js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:  bucket.name,
			History: 1,
		})
		if err != nil {
			return nil, err
		}
		*bucket.target = kv
	}

	return stores, nil
}

// setupSubscriptions attaches the queue subscriptions for the internal
// workflow trigger subjects.
func setupSubscriptions(ctx context.Context, conn *nats.Conn, handler domain.MessageHandler) error {
	subjects := []string{
		models.CallProcessingSubject,
		models.UserReminderSubject,
	}

	for _, subject := range subjects {
		if _, err := conn.QueueSubscribe(subject, models.CallInsightAPIQueue, func(m *nats.Msg) {
			handler.HandleMessage(ctx, natsMessage{msg: m})
		}); err != nil {
			return err
		}
		slog.InfoContext(ctx, "subscribed to subject",
			"subject", subject, "queue", models.CallInsightAPIQueue)
	}

	return nil
}
