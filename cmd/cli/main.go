// Package main provides printquote, a command line front end to the pricing
// core: quote a configuration, validate it, estimate delivery, list the catalog.
//
// Run with: go run ./cmd/cli quote --paper canson_rag --width 50 --height 70
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fleveque/print-quote-service/internal/catalog"
	"github.com/fleveque/print-quote-service/internal/config"
	"github.com/fleveque/print-quote-service/internal/configurator"
	"github.com/fleveque/print-quote-service/internal/delivery"
	"github.com/fleveque/print-quote-service/internal/model"
	"github.com/fleveque/print-quote-service/internal/pricing"
	"github.com/fleveque/print-quote-service/internal/service"
	"github.com/fleveque/print-quote-service/internal/validation"
)

// errInvalid makes validate exit non-zero once the findings are printed.
var errInvalid = errors.New("configuration is not valid for ordering")

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "printquote",
		Short:        "Price and validate fine-art print configurations",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", os.Getenv(config.EnvPrefix+"_CONFIG_PATH"),
		"config file (catalog price overrides)")

	root.AddCommand(
		quoteCmd(&configPath),
		validateCmd(&configPath),
		deliveryCmd(),
		catalogCmd(&configPath),
	)
	return root
}

// configFlags are the flags shared by quote and validate.
type configFlags struct {
	product  string
	paper    string
	width    float64
	height   float64
	border   int
	mat      int
	quantity int
	rush     string
	json     bool
}

func (f *configFlags) register(cmd *cobra.Command) {
	def := model.DefaultConfiguration()
	fl := cmd.Flags()
	fl.StringVar(&f.product, "product", string(def.ProductType), "print_only, print_frame or print_frame_glass")
	fl.StringVar(&f.paper, "paper", string(def.PaperType), "canson_photo, canson_rag or canvas")
	fl.Float64Var(&f.width, "width", def.Dimensions.Width, "total width in cm")
	fl.Float64Var(&f.height, "height", def.Dimensions.Height, "total height in cm")
	fl.IntVar(&f.border, "border", 0, "white border in cm: 0, 2, 3 or 5 (print only)")
	fl.IntVar(&f.mat, "mat", 0, "passe-partout in cm: 0, 5, 7 or 10 (framed, not canvas)")
	fl.IntVar(&f.quantity, "quantity", 1, "number of copies")
	fl.StringVar(&f.rush, "rush", string(def.RushOrder), "standard, 72h, 48h or 24h")
	fl.BoolVar(&f.json, "json", false, "print the full quote as JSON")
}

// configuration parses the flags into a Configuration. Options the chosen
// product cannot carry, such as a border on a frame, are rejected here.
func (f *configFlags) configuration() (model.Configuration, error) {
	var errs []error
	product, err := model.ParseProductType(f.product)
	errs = append(errs, err)
	paper, err := model.ParsePaperType(f.paper)
	errs = append(errs, err)
	border, err := model.ParseBorderSize(f.border)
	errs = append(errs, err)
	mat, err := model.ParsePassepartoutSize(f.mat)
	errs = append(errs, err)
	rush, err := model.ParseRushOrder(f.rush)
	errs = append(errs, err)
	if err := errors.Join(errs...); err != nil {
		return model.Configuration{}, err
	}

	cfg := model.Configuration{
		ProductType:      product,
		PaperType:        paper,
		Dimensions:       model.Dimensions{Width: f.width, Height: f.height},
		BorderSize:       border,
		PassepartoutSize: mat,
		Quantity:         f.quantity,
		RushOrder:        rush,
	}
	if err := cfg.Check(); err != nil {
		return model.Configuration{}, err
	}
	return cfg, configurator.CheckOptions(cfg)
}

// newQuoteService builds a stateless QuoteService priced with the catalog
// from the config file, if any.
func newQuoteService(configPath string) (*service.QuoteService, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	prices, err := catalog.DefaultPrices.WithOverrides(cfg.Catalog.PricesPerM2)
	if err != nil {
		return nil, fmt.Errorf("catalog prices: %w", err)
	}

	// CLI always logs in development mode
	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return service.NewQuoteService(nil, prices, logger), nil
}

func quoteCmd(configPath *string) *cobra.Command {
	var flags configFlags
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			quote, cat, err := evaluate(*configPath, &flags)
			if err != nil {
				return err
			}
			if flags.json {
				return writeJSON(cmd.OutOrStdout(), quote)
			}
			printQuote(cmd.OutOrStdout(), cat, quote)
			printIssues(cmd.OutOrStdout(), quote.Validation)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func validateCmd(configPath *string) *cobra.Command {
	var flags configFlags
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration and exit non-zero when it cannot be ordered",
		RunE: func(cmd *cobra.Command, args []string) error {
			quote, _, err := evaluate(*configPath, &flags)
			if err != nil {
				return err
			}
			if flags.json {
				if err := writeJSON(cmd.OutOrStdout(), quote.Validation); err != nil {
					return err
				}
			} else {
				printIssues(cmd.OutOrStdout(), quote.Validation)
				if quote.Validation.IsValid {
					fmt.Fprintln(cmd.OutOrStdout(), "OK")
				}
			}
			if !quote.Validation.IsValid {
				return errInvalid
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func evaluate(configPath string, flags *configFlags) (*model.Quote, catalog.Catalog, error) {
	cfg, err := flags.configuration()
	if err != nil {
		return nil, catalog.Catalog{}, err
	}
	svc, err := newQuoteService(configPath)
	if err != nil {
		return nil, catalog.Catalog{}, err
	}
	quote, err := svc.Evaluate(cfg)
	return quote, svc.Catalog(), err
}

func deliveryCmd() *cobra.Command {
	var rush, from string
	cmd := &cobra.Command{
		Use:   "delivery",
		Short: "Estimate the delivery date for a rush option",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := model.ParseRushOrder(rush)
			if err != nil {
				return err
			}
			today := time.Now()
			if from != "" {
				if today, err = time.ParseInLocation(time.DateOnly, from, time.Local); err != nil {
					return fmt.Errorf("invalid --from: %w", err)
				}
			}
			eta := delivery.Estimate(r, today)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", delivery.FormatDate(eta), eta.Format(time.DateOnly))
			return nil
		},
	}
	cmd.Flags().StringVar(&rush, "rush", string(model.RushStandard), "standard, 72h, 48h or 24h")
	cmd.Flags().StringVar(&from, "from", "", "order date as YYYY-MM-DD (default today)")
	return cmd
}

func catalogCmd(configPath *string) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List papers, products, borders and passe-partouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newQuoteService(*configPath)
			if err != nil {
				return err
			}
			cat := svc.Catalog()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), cat)
			}
			printCatalog(cmd.OutOrStdout(), cat)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the catalog as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printQuote(w io.Writer, cat catalog.Catalog, q *model.Quote) {
	cfg := q.Configuration
	img := q.ImageDimensions
	f := q.Pricing.Formatted

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Produto:\t%s\n", cat.ProductName(cfg.ProductType))
	fmt.Fprintf(tw, "Papel:\t%s\n", cat.PaperName(cfg.PaperType))
	fmt.Fprintf(tw, "Tamanho total:\t%g × %g cm\n", img.TotalWidth, img.TotalHeight)
	fmt.Fprintf(tw, "Área de impressão:\t%g × %g cm\n", img.ImageWidth, img.ImageHeight)
	fmt.Fprintf(tw, "Lado total mínimo:\t%g cm\n", img.MinTotalSide)
	fmt.Fprintf(tw, "Quantidade:\t%d\n", cfg.Quantity)
	fmt.Fprintf(tw, "Preço unitário:\t%s\n", f.UnitPrice)
	fmt.Fprintf(tw, "Subtotal:\t%s\n", f.Subtotal)
	if q.Pricing.VolumeDiscount != 0 {
		fmt.Fprintf(tw, "Desconto por volume:\t%s\n", f.VolumeDiscount)
	}
	if q.Pricing.RushCharge != 0 {
		fmt.Fprintf(tw, "Taxa de urgência:\t%s\n", f.RushCharge)
	}
	fmt.Fprintf(tw, "Total:\t%s\n", f.Total)
	fmt.Fprintf(tw, "Entrega estimada:\t%s\n", q.FormattedDelivery)
	tw.Flush()
}

// printIssues lists errors then warnings, grouped by field.
func printIssues(w io.Writer, v model.ValidationResult) {
	r := validation.Result{ValidationResult: v}
	fields := []string{validation.FieldDimensions, validation.FieldProduct, validation.FieldConfiguration, validation.FieldFile}
	for _, field := range fields {
		for _, is := range r.FieldErrors(field) {
			fmt.Fprintf(w, "erro   [%s] %s: %s\n", is.Code, is.Field, is.Message)
		}
	}
	for _, field := range fields {
		for _, is := range r.FieldWarnings(field) {
			fmt.Fprintf(w, "aviso  [%s] %s: %s\n", is.Code, is.Field, is.Message)
		}
	}
}

func printCatalog(w io.Writer, cat catalog.Catalog) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "PAPEL\tID\tGRAMATURA\tACABAMENTO\tPREÇO/M²")
	for _, p := range cat.Papers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", p.Name, p.ID, p.Weight, p.Finish, pricing.FormatCurrency(p.PricePerM2))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "PRODUTO\tID\tRESTRIÇÕES")
	for _, p := range cat.Products {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p.Name, p.ID, restrictions(p.Restrictions))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "BORDA\tCM\tCUSTO")
	for _, o := range cat.BorderOptions {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", o.Name, o.Value, pricing.FormatCurrency(o.Cost))
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "PASSE-PARTOUT\tCM\tCUSTO")
	for _, o := range cat.PassepartoutOptions {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", o.Name, o.Value, pricing.FormatCurrency(o.Cost))
	}
	tw.Flush()
}

func restrictions(r *catalog.Restrictions) string {
	if r == nil {
		return "-"
	}
	var parts []string
	for _, p := range r.IncompatiblePapers {
		parts = append(parts, "sem "+string(p))
	}
	if r.MaxDimensions != nil {
		parts = append(parts, fmt.Sprintf("máx. %g × %g cm", r.MaxDimensions.Width, r.MaxDimensions.Height))
	}
	return strings.Join(parts, ", ")
}
