package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"

	"github.com/optimizar-ia/facturador/internal/application/auth"
	"github.com/optimizar-ia/facturador/internal/application/billing"
	"github.com/optimizar-ia/facturador/internal/application/dto"
	"github.com/optimizar-ia/facturador/internal/domain/invoice"
	"github.com/optimizar-ia/facturador/internal/infrastructure/memory"
	"github.com/optimizar-ia/facturador/internal/infrastructure/storage"
	"github.com/optimizar-ia/facturador/internal/infrastructure/webhook"
	"github.com/optimizar-ia/facturador/pkg/config"
	"github.com/optimizar-ia/facturador/pkg/logger"
)

const cliOperator = "cli"

// Draft borrador leído por `calcular`: mismos campos que el formulario del asistente.
type Draft struct {
	Facturacion dto.BillingRequest `json:"facturacion"`
	Items       []dto.ItemRequest  `json:"items"`
}

func newApp(stdout, stderr io.Writer) *cli.App {
	app := &cli.App{
		Name:      "facturador",
		Usage:     "cálculo de borradores y reenvío de facturas guardadas",
		Writer:    stdout,
		ErrWriter: stderr,
		Commands: []*cli.Command{
			{
				Name:      "calcular",
				Usage:     "calcula importes por ítem y totales de un borrador JSON",
				ArgsUsage: "<borrador.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "iva", Value: "0.21", EnvVars: []string{"BILLING_IVA_RATE"}, Usage: "alícuota de IVA"},
				},
				Action: runCalcular,
			},
			{
				Name:      "reenviar",
				Usage:     "reenvía al webhook una factura guardada en disco",
				ArgsUsage: "<invoice_YYYYMMDD_HHMMSS.json>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "url", Value: config.DefaultWebhookURL, EnvVars: []string{"WEBHOOK_URL"}, Usage: "URL del webhook"},
					&cli.DurationFlag{Name: "timeout", Value: 300 * time.Second, Usage: "timeout del POST"},
					&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"LOG_LEVEL"}},
				},
				Action: runReenviar,
			},
			{
				Name:      "hash-clave",
				Usage:     "genera el hash bcrypt para OPERATOR_PASSWORD_HASH",
				ArgsUsage: "<password>",
				Action:    runHashClave,
			},
		},
	}
	// main decide el código de salida; Run nunca llama a os.Exit.
	app.ExitErrHandler = func(*cli.Context, error) {}
	return app
}

func runCalcular(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("uso: facturador calcular <borrador.json>", 2)
	}
	rate, err := decimal.NewFromString(c.String("iva"))
	if err != nil || rate.IsNegative() {
		return cli.Exit(fmt.Sprintf("alícuota de IVA inválida %q", c.String("iva")), 2)
	}
	raw, err := os.ReadFile(c.Args().First())
	if err != nil {
		return fmt.Errorf("leer borrador: %w", err)
	}
	var draft Draft
	if err := json.Unmarshal(raw, &draft); err != nil {
		return fmt.Errorf("borrador inválido: %w", err)
	}

	preview, err := calcular(c.Context, invoice.NewCalculator(rate), draft)
	if err != nil {
		return err
	}
	if err := writeJSON(c.App.Writer, preview); err != nil {
		return err
	}
	if len(preview.ErroresCalc) > 0 {
		return cli.Exit(fmt.Sprintf("%d ítem(s) con errores de cálculo", len(preview.ErroresCalc)), 1)
	}
	return nil
}

// calcular carga el borrador en una sesión en memoria y devuelve la vista previa.
func calcular(ctx context.Context, calc *invoice.Calculator, draft Draft) (*dto.PreviewResponse, error) {
	uc := billing.NewWizardUseCase(billing.WizardDeps{
		Store: memory.NewSessionStore(),
		Calc:  calc,
		Log:   logger.Nop(),
	})
	s, err := uc.Start(ctx, cliOperator)
	if err != nil {
		return nil, err
	}
	if _, err := uc.SetBilling(ctx, cliOperator, s.ID, draft.Facturacion); err != nil {
		return nil, err
	}
	for i, it := range draft.Items {
		uid := s.Items[0].UID
		if i > 0 {
			s, err = uc.AddItem(ctx, cliOperator, s.ID)
			if err != nil {
				return nil, err
			}
			uid = s.Items[len(s.Items)-1].UID
		}
		if _, err := uc.UpdateItem(ctx, cliOperator, s.ID, uid, it); err != nil {
			return nil, fmt.Errorf("ítem %d: %w", i+1, err)
		}
	}
	return uc.Preview(ctx, cliOperator, s.ID)
}

func runReenviar(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("uso: facturador reenviar <archivo.json>", 2)
	}
	log := logger.NewWithWriter(logger.Config{Env: "production", Level: c.String("log-level")}, c.App.ErrWriter)

	path := c.Args().First()
	archive := storage.NewJSONArchive(afero.NewOsFs(), filepath.Dir(path), "")
	payload, err := archive.Load(path)
	if err != nil {
		return err
	}

	client := webhook.NewClient(c.String("url"), c.Duration("timeout"))
	result, err := client.Send(c.Context, payload)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("reenvío fallido")
		return cli.Exit(err.Error(), 1)
	}
	result.SentAt = time.Now()
	log.Info().Str("path", path).Int("status_code", result.StatusCode).Bool("ok", result.OK).Msg("reenvío")

	if err := writeJSON(c.App.Writer, result); err != nil {
		return err
	}
	if !result.OK {
		return cli.Exit(fmt.Sprintf("el webhook respondió %d", result.StatusCode), 1)
	}
	return nil
}

func runHashClave(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return cli.Exit("uso: facturador hash-clave <password>", 2)
	}
	hash, err := auth.HashPassword(c.Args().First())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, hash)
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
