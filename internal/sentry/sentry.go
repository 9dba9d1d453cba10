package sentry

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/inscription-c/ordinscribe/constants"
)

// Init configures the global sentry client. An empty dsn leaves sentry
// disabled.
func Init(dsn string, tracesSampleRate float64, testnet bool) error {
	if dsn == "" {
		return nil
	}
	environment := "mainnet"
	if testnet {
		environment = "testnet"
	}
	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		ServerName:       constants.AppName,
		Environment:      environment,
		TracesSampleRate: tracesSampleRate,
	})
}

// RecoverPanic reports a panic of the calling goroutine and re-panics.
func RecoverPanic() {
	if err := recover(); err != nil {
		sentry.CurrentHub().Recover(err)
		sentry.Flush(time.Second * 2)
		panic(err)
	}
}

// Flush waits for buffered events to be sent.
func Flush() {
	sentry.Flush(time.Second * 2)
}
