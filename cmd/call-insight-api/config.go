// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"strconv"
)

// environment holds the environment-driven configuration of the service.
type environment struct {
	// NatsURL is the NATS server URL
	NatsURL string

	// DefaultOrganizationID scopes webhook deliveries whose URL carries no
	// org parameter.
	DefaultOrganizationID string

	// ProviderWebhookSecret verifies signed provider deliveries; optional.
	ProviderWebhookSecret string
	// BillingWebhookSecret verifies the billing webhook; required for it.
	BillingWebhookSecret string

	// Oracle connection settings
	OracleURL    string
	OracleAPIKey string

	// SMTP delivery settings; email is disabled when the host is empty.
	SMTPHost     string
	SMTPPort     int
	SMTPFrom     string
	SMTPUsername string
	SMTPPassword string
}

func parseEnv() environment {
	env := environment{
		NatsURL:               os.Getenv("NATS_URL"),
		DefaultOrganizationID: os.Getenv("DEFAULT_ORG_ID"),
		ProviderWebhookSecret: os.Getenv("PROVIDER_WEBHOOK_SECRET"),
		BillingWebhookSecret:  os.Getenv("BILLING_WEBHOOK_SECRET"),
		OracleURL:             os.Getenv("ORACLE_URL"),
		OracleAPIKey:          os.Getenv("ORACLE_API_KEY"),
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPFrom:              os.Getenv("SMTP_FROM"),
		SMTPUsername:          os.Getenv("SMTP_USERNAME"),
		SMTPPassword:          os.Getenv("SMTP_PASSWORD"),
	}

	if env.NatsURL == "" {
		env.NatsURL = "nats://localhost:4222"
	}

	if port, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		env.SMTPPort = port
	} else {
		env.SMTPPort = 587
	}

	return env
}
