package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alovak/pixflow-playground/brcode"
	"github.com/alovak/pixflow-playground/charges"
	"github.com/alovak/pixflow-playground/charges/models"
	"github.com/alovak/pixflow-playground/internal/pixdev"
	"github.com/alovak/pixflow-playground/internal/render"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slog"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "pix",
		Usage:  "build pix BR Code payloads and serve charges",
		Before: loadEnv,
		Commands: []*cli.Command{
			payloadCmd,
			serveCmd,
			chargeCmd,
		},
	}
}

// loadEnv reads .env from the working directory when present.
func loadEnv(ctx *cli.Context) error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("loading .env: %w", err)
	}
	return nil
}

var chargeFlags = []cli.Flag{
	&cli.StringFlag{Name: "key", Usage: "pix key", Required: true},
	&cli.StringFlag{Name: "description", Usage: "payment description"},
	&cli.StringFlag{Name: "name", Usage: "merchant name"},
	&cli.StringFlag{Name: "city", Usage: "merchant city"},
	&cli.StringFlag{Name: "txid", Usage: "transaction id"},
	&cli.StringFlag{Name: "amount", Usage: "amount, e.g. 120 or 12.50", Required: true},
}

func requestFromFlags(ctx *cli.Context) models.CreateCharge {
	return models.CreateCharge{
		PixKey:       ctx.String("key"),
		Description:  ctx.String("description"),
		MerchantName: ctx.String("name"),
		MerchantCity: ctx.String("city"),
		TxID:         ctx.String("txid"),
		Amount:       ctx.String("amount"),
	}
}

var payloadCmd = &cli.Command{
	Name:  "payload",
	Usage: "print a payload for the given attributes",
	Flags: append([]cli.Flag{
		&cli.IntFlag{Name: "description-max-len", Value: brcode.DefaultDescriptionMaxLen, Usage: "description characters kept"},
		&cli.BoolFlag{Name: "strict", Usage: "require pix key, merchant name and a positive amount"},
		&cli.BoolFlag{Name: "qr", Usage: "also draw the QR code in the terminal"},
		&cli.StringFlag{Name: "png", Usage: "write the QR code as PNG to this path"},
	}, chargeFlags...),
	Action: buildPayload,
}

func buildPayload(ctx *cli.Context) error {
	req := requestFromFlags(ctx)
	b := brcode.NewBuilder(brcode.WithDescriptionMaxLen(ctx.Int("description-max-len"))).
		SetPixKey(req.PixKey).
		SetDescription(req.Description).
		SetMerchantName(req.MerchantName).
		SetMerchantCity(req.MerchantCity).
		SetTxID(req.TxID).
		SetAmountString(req.Amount)

	if ctx.Bool("strict") {
		if err := brcode.Validate(b); err != nil {
			return err
		}
	}

	payload, err := b.Build()
	if err != nil {
		return err
	}
	fmt.Println(payload)

	if ctx.Bool("qr") {
		render.Terminal(os.Stdout, payload)
	}
	if path := ctx.String("png"); path != "" {
		png, err := render.PNG(payload, render.DefaultSize)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return fmt.Errorf("writing png: %w", err)
		}
	}
	return nil
}

var serveCmd = &cli.Command{
	Name:  "serve",
	Usage: "run the charges HTTP service",
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "addr", Usage: "listen address (overrides HTTP_ADDR)"},
	},
	Action: serve,
}

func serve(ctx *cli.Context) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := charges.ConfigFromEnv()
	if addr := ctx.String("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}

	app := charges.NewApp(logger, cfg)
	if err := app.Start(); err != nil {
		return fmt.Errorf("starting app: %w", err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	app.Shutdown()
	return nil
}

var chargeCmd = &cli.Command{
	Name:  "charge",
	Usage: "manage charges on a running service",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "create a charge",
			Flags: append([]cli.Flag{
				&cli.StringFlag{Name: "server", Value: "http://localhost:9090", Usage: "charges service base URL", EnvVars: []string{"PIX_SERVER"}},
				&cli.IntFlag{Name: "ttl", Usage: "charge lifetime in seconds"},
			}, chargeFlags...),
			Action: createCharge,
		},
		{
			Name:      "get",
			Usage:     "show a charge",
			ArgsUsage: "CHARGE_ID",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "server", Value: "http://localhost:9090", Usage: "charges service base URL", EnvVars: []string{"PIX_SERVER"}},
			},
			Action: getCharge,
		},
	},
}

func createCharge(ctx *cli.Context) error {
	req := requestFromFlags(ctx)
	req.TTLSeconds = ctx.Int("ttl")

	cctx, cancel := context.WithTimeout(ctx.Context, 10*time.Second)
	defer cancel()

	charge, err := pixdev.New(ctx.String("server"), nil).CreateCharge(cctx, req)
	if err != nil {
		return err
	}
	return printJSON(charge)
}

func getCharge(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return fmt.Errorf("charge id is required")
	}

	cctx, cancel := context.WithTimeout(ctx.Context, 10*time.Second)
	defer cancel()

	charge, err := pixdev.New(ctx.String("server"), nil).GetCharge(cctx, id)
	if err != nil {
		return err
	}
	return printJSON(charge)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
