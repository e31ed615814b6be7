package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"euplatesc/config"
	"euplatesc/entity"
	"euplatesc/internal"
	"euplatesc/internal/sandbox"

	"github.com/joho/godotenv"
)

const usage = `usage: euplatesc [-conf config.yml] <command> [flags]

commands:
  url      build a signed payment URL
  status   check a transaction by -epid or -invoice
  verify   verify a return callback read from stdin (query string)
  sandbox  run the local sandbox gateway
`

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	flags := flag.NewFlagSet("euplatesc", flag.ContinueOnError)
	configPath := flags.String("conf", "", "path to config file; environment only when empty")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		return errors.New(usage)
	}

	logger := internal.NewLogger("cli", false)
	conf, err := loadConfig(*configPath)
	if err != nil {
		logger.Error("boot", err)
		return err
	}
	logger = internal.NewLogger("cli", conf.IsDebug)
	defer logger.Sync()

	command, rest := flags.Arg(0), flags.Args()[1:]
	if command == "sandbox" {
		server, err := sandbox.NewServer(conf)
		if err != nil {
			return err
		}
		server.SetLogger(internal.NewLogger("sandbox", conf.IsDebug))
		return server.Start()
	}

	payments, err := internal.NewPayments(conf, internal.WithLogger(internal.NewLogger("payments", conf.IsDebug)))
	if err != nil {
		logger.Error("payments client", err)
		return err
	}

	switch command {
	case "url":
		return paymentURL(payments, rest, stdout)
	case "status":
		return status(payments, rest, stdout)
	case "verify":
		return verify(payments, stdin, stdout)
	default:
		return fmt.Errorf("unknown command %q\n%s", command, usage)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.GetConfig(path)
	}
	// a missing .env is fine, the variables may come from the environment
	_ = godotenv.Load()
	return config.LoadEnv()
}

func paymentURL(payments *internal.Payments, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("url", flag.ContinueOnError)
	amount := flags.String("amount", "", "amount, e.g. 12.34")
	currency := flags.String("currency", "RON", "RON, EUR or USD")
	invoice := flags.String("invoice", "", "invoice id")
	description := flags.String("desc", "", "order description")
	email := flags.String("email", "", "billing email")
	successURL := flags.String("success-url", "", "redirect after a successful payment")
	failedURL := flags.String("failed-url", "", "redirect after a failed payment")
	lang := flags.String("lang", "", "payment page language")
	if err := flags.Parse(args); err != nil {
		return err
	}

	value, err := internal.ParseAmount(*amount)
	if err != nil {
		return err
	}
	request := &entity.PaymentRequest{
		Amount:           value,
		Currency:         entity.Currency(strings.ToUpper(*currency)),
		InvoiceID:        *invoice,
		OrderDescription: *description,
		Billing:          entity.Address{Email: *email},
		Extra: entity.ExtraData{
			SuccessURL: *successURL,
			FailedURL:  *failedURL,
			Lang:       entity.Language(*lang),
		},
	}
	link, err := payments.PaymentURL(request)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, link)
	return err
}

func status(payments *internal.Payments, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("status", flag.ContinueOnError)
	epID := flags.String("epid", "", "transaction ep id")
	invoice := flags.String("invoice", "", "invoice id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	response, err := payments.CheckStatus(context.Background(), *epID, *invoice)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(response.Raw))
	return err
}

func verify(payments *internal.Payments, stdin io.Reader, stdout io.Writer) error {
	data, err := io.ReadAll(stdin)
	if err != nil {
		return fmt.Errorf("read callback: %w", err)
	}
	values, err := url.ParseQuery(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("parse callback: %w", err)
	}
	result := payments.VerifyReturn(entity.ParseReturn(values))
	_, err = fmt.Fprintf(stdout, "%s success=%t\n", result.Status, result.Success)
	return err
}
