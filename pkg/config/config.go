package config

import (
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	// DB
	PGDSN string `envconfig:"PG_DSN" required:"true"`

	// Payment gateway
	GatewayBaseURL   string `envconfig:"GATEWAY_BASE_URL" default:"https://api.razorpay.com"`
	GatewayKeyID     string `envconfig:"GATEWAY_KEY_ID" required:"true"`
	GatewayKeySecret string `envconfig:"GATEWAY_KEY_SECRET" required:"true"`
	// Signs webhook bodies; may differ from the key secret.
	WebhookSecret string `envconfig:"GATEWAY_WEBHOOK_SECRET"`

	// Messaging (optional; domain events are skipped when unset)
	RabbitURL  string `envconfig:"RABBIT_URL"`
	MQExchange string `envconfig:"MQ_EXCHANGE" default:"coursepay.exchange"`

	// Collaborators (optional; console fallbacks when unset)
	MailServiceURL string `envconfig:"MAIL_SERVICE_URL"`
	SheetBridgeURL string `envconfig:"SHEET_BRIDGE_URL"`

	// Side effects
	DispatchWorkers     int  `envconfig:"DISPATCH_WORKERS" default:"8"`
	DispatchBuffer      int  `envconfig:"DISPATCH_BUFFER" default:"64"`
	RenotifyOnDuplicate bool `envconfig:"RENOTIFY_ON_DUPLICATE" default:"false"`

	// Network
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
