package main

import (
	"os"

	"github.com/jessevdk/go-flags"
)

type optsGeneral struct {
	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

type optsStore struct {
	StoreURL string `long:"store-url" env:"STORE_URL" default:"redis://localhost:6379/0" description:"Store connection string"`

	StoreTLSCaCert string `long:"store-tls-ca-cert" env:"STORE_TLS_CA_CERT" description:"Path to CA certificate used to verify the store"`
	StoreTLSCert   string `long:"store-tls-cert" env:"STORE_TLS_CERT" description:"Path to TLS certificate"`
	StoreTLSKey    string `long:"store-tls-key" env:"STORE_TLS_KEY" description:"Path to TLS key"`
}

type optsQueue struct {
	QueueURL string `long:"queue-url" env:"QUEUE_URL" default:"redis://localhost:6379/0" description:"Queue connection string"`

	QueueTLSCaCert string `long:"queue-tls-ca-cert" env:"QUEUE_TLS_CA_CERT" description:"Path to CA certificate used to verify the queue"`
	QueueTLSCert   string `long:"queue-tls-cert" env:"QUEUE_TLS_CERT" description:"Path to TLS certificate"`
	QueueTLSKey    string `long:"queue-tls-key" env:"QUEUE_TLS_KEY" description:"Path to TLS key"`
}

var CLI struct {
	API    optsAPI    `command:"api" description:"Run the HTTP API server"`
	Worker optsWorker `command:"worker" description:"Run a job worker"`
	Watch  optsWatch  `command:"watch" description:"Tail job completion events"`
}

func main() {
	var parser = flags.NewParser(&CLI, flags.Default)
	if _, err := parser.Parse(); err != nil {
		switch flagsErr := err.(type) {
		case flags.ErrorType:
			if flagsErr == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		default:
			os.Exit(1)
		}
	}
}
