package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/you/coursepay/internal/dispatch"
	"github.com/you/coursepay/internal/gateway"
	httpx "github.com/you/coursepay/internal/http"
	"github.com/you/coursepay/internal/notify"
	"github.com/you/coursepay/internal/repository"
	"github.com/you/coursepay/internal/service"
	"github.com/you/coursepay/internal/signature"
	"github.com/you/coursepay/pkg/config"
	"github.com/you/coursepay/pkg/db"
	"github.com/you/coursepay/pkg/logger"
	"github.com/you/coursepay/pkg/mq"
	"github.com/you/coursepay/pkg/obs"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logr := logger.New()

	shutdownTracer := obs.InitTracer("coursepay")
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = shutdownTracer(ctx)
	}()

	gdb := db.Open(cfg.PGDSN)
	accounts := repository.NewAccountRepo(gdb)
	offerings := repository.NewOfferingRepo(gdb)
	enrollments := repository.NewEnrollmentRepo(gdb)
	ledger := repository.NewPaymentRepo(gdb)
	for _, m := range []interface{ Migrate() error }{accounts, offerings, enrollments, ledger} {
		if err := m.Migrate(); err != nil {
			log.Fatal(err)
		}
	}

	var pub *mq.Publisher
	if cfg.RabbitURL != "" {
		pub, err = mq.NewPublisher(cfg.RabbitURL, cfg.MQExchange)
		if err != nil {
			// events are best-effort; run without them
			log.Printf("mq unavailable, events disabled: %v", err)
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	var mailer notify.Mailer = notify.NewConsoleMailer()
	if cfg.MailServiceURL != "" {
		mailer = notify.NewHTTPMailer(cfg.MailServiceURL)
	}
	var sheets notify.LedgerSync = notify.NewConsoleLedger()
	if cfg.SheetBridgeURL != "" {
		sheets = notify.NewHTTPLedgerSync(cfg.SheetBridgeURL)
	}

	pool := dispatch.NewPool(cfg.DispatchBuffer, logr)
	pool.Start(cfg.DispatchWorkers)

	svc := service.New(service.Deps{
		Accounts:            accounts,
		Offerings:           offerings,
		Enrollments:         enrollments,
		Ledger:              ledger,
		Gateway:             gateway.NewClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret),
		WebhookSig:          signature.New(cfg.WebhookSecret),
		VerifySig:           signature.New(cfg.GatewayKeySecret),
		Pool:                pool,
		Mailer:              mailer,
		Sheets:              sheets,
		Publisher:           pub,
		Logger:              logr,
		RenotifyOnDuplicate: cfg.RenotifyOnDuplicate,
	})

	router := httpx.NewRouter(
		httpx.NewPaymentHandler(svc, logr),
		httpx.NewHealthHandler(gdb),
	)

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	go func() {
		log.Println("coursepay listening on", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(ctx)
	pool.Shutdown()
	log.Println("stopped")
}
