package commands

import (
	"context"
	"log/slog"
	"time"

	"catalog-backend/lib/configutil"
	"catalog-backend/lib/drupal"
	"catalog-backend/lib/serviceutil"
	"catalog-backend/lib/sqliteutil"
	"catalog-backend/lib/telemetry"
	"catalog-backend/services/catalog"
	"catalog-backend/services/catalog/db"
	"catalog-backend/services/ingestion"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

type PartnerConfig struct {
	ShortCode string `json:"short_code"`
	Name      string `json:"name"`
}

type MarketingSiteConfig struct {
	Url      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type Config struct {
	Partner       PartnerConfig       `json:"partner"`
	MarketingSite MarketingSiteConfig `json:"marketing_site"`
	MaxWorkers    int                 `json:"max_workers"`
	Threadsafe    bool                `json:"threadsafe"`
}

var (
	ingestDb    *string
	ingestTypes *[]string
)

func init() {
	ingestDb = ingestCmd.Flags().String("db", "catalog.db", "The database to write catalog entities to.")
	ingestTypes = ingestCmd.Flags().StringSlice("types", nil, "Restrict the run to the given node types.")
	rootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest [--db <path/to/catalog.db>] [--types subject,course]",
	Short: "Drains the marketing site node listings into the catalog database.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if cfg.MarketingSite.Username == "" || cfg.MarketingSite.Password == "" {
			serviceutil.Fatal("failed to validate config", errMissingCredentials)
		}

		ctx := cmd.Context()
		t, err := telemetry.SetupFromEnv(ctx, "catalog-ingest")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer t.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)

		out, err := sqliteutil.OpenDB(db.Schema, *ingestDb)
		if err != nil {
			serviceutil.Fatal("failed to open db", err)
		}
		defer out.Close()

		store := catalog.NewStore(out)
		partner, err := store.EnsurePartner(ctx, cfg.Partner.ShortCode, cfg.Partner.Name)
		if err != nil {
			serviceutil.Fatal("failed to ensure partner", err)
		}

		client, err := drupal.NewClient(ctx, drupal.ClientOptions{
			BaseUrl:  cfg.MarketingSite.Url,
			Username: cfg.MarketingSite.Username,
			Password: cfg.MarketingSite.Password,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize marketing site client", err)
		}

		loader, err := ingestion.NewLoader(store, client, partner, ingestion.Options{
			MaxWorkers: cfg.MaxWorkers,
			Threadsafe: cfg.Threadsafe,
			NodeTypes:  *ingestTypes,
		})
		if err != nil {
			serviceutil.Fatal("failed to initialize loader", err)
		}

		slog.Info("ingesting marketing site", "url", cfg.MarketingSite.Url, "partner", partner.ShortCode)

		t1 := time.Now()
		err = loader.Run(ctx)
		t2 := time.Now()
		if err != nil {
			serviceutil.Fatal("ingestion run aborted", err)
		}

		slog.Info("ingestion time", "seconds", t2.Sub(t1).Seconds())
		printSummary(loader.Summary())
	},
}

func printSummary(summary *ingestion.Summary) {
	t := newTable()
	t.AppendHeader(table.Row{"Node type", "Processed", "Skipped", "Failed"})
	for _, row := range summary.Rows() {
		t.AppendRow(table.Row{row.NodeType, row.Processed, row.Skipped, row.Failed})
	}
	t.Render()
}
