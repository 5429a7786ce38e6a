package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Rrens/sqlquery-ai/internal/config"
	"github.com/Rrens/sqlquery-ai/internal/database"
	"github.com/Rrens/sqlquery-ai/internal/database/mysql"
	"github.com/Rrens/sqlquery-ai/internal/database/postgres"
	"github.com/Rrens/sqlquery-ai/internal/database/sqlite"
	"github.com/Rrens/sqlquery-ai/internal/database/sqlserver"
	"github.com/Rrens/sqlquery-ai/internal/llm"
	"github.com/Rrens/sqlquery-ai/internal/llm/factory"
	"github.com/Rrens/sqlquery-ai/internal/logging"
	"github.com/Rrens/sqlquery-ai/internal/security"
	"github.com/Rrens/sqlquery-ai/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	prompt := flag.String("prompt", "", "natural language question to turn into SQL")
	schemaFile := flag.String("schema", "", "file holding schema context; read from the configured database when empty")
	hashSecret := flag.String("hash-secret", "", "print the bcrypt hash of a client secret for auth.clients and exit")
	flag.Parse()

	if *hashSecret != "" {
		hash, err := security.HashSecret(*hashSecret)
		if err != nil {
			fail("hash secret", err)
		}
		fmt.Println(hash)
		return
	}

	if *prompt == "" {
		flag.Usage()
		os.Exit(2)
	}

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fail("load config", err)
	}

	// Keep stdout for the query
	cfg.Logging.Format = "console"
	cfg.Logging.File = ""
	logger, _, err := logging.Setup(cfg.Logging)
	if err != nil {
		fail("set up logging", err)
	}

	providerType, providerCfg, err := cfg.LLM.Selected()
	if err != nil {
		fail("select provider", err)
	}
	provider, err := factory.New(providerType, providerCfg, llm.Options{
		HTTPClient: llm.NewHTTPClient(cfg.LLM.RequestTimeout),
		Logger:     logger,
	})
	if err != nil {
		fail("create provider", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var query string
	if *schemaFile != "" {
		schema, err := os.ReadFile(*schemaFile)
		if err != nil {
			fail("read schema", err)
		}
		query, err = provider.GenerateSQLQuery(ctx, *prompt, string(schema))
		if err != nil {
			fail("generate SQL", err)
		}
	} else {
		dbRouter := database.NewRouter()
		dbRouter.RegisterAdapter("sqlserver", sqlserver.NewAdapter)
		dbRouter.RegisterAdapter("postgres", postgres.NewAdapter)
		dbRouter.RegisterAdapter("mysql", mysql.NewAdapter)
		dbRouter.RegisterAdapter("sqlite", sqlite.NewAdapter)
		defer dbRouter.CloseAll()

		svc := service.NewSQLService(provider, dbRouter, service.Target{
			Type:       cfg.Database.Type,
			Connection: database.ConnectionConfigFrom(cfg.Database),
			Options:    database.QueryOptionsFrom(cfg.Database),
		}, nil, logger)

		query, err = svc.GenerateSQL(ctx, *prompt)
		if err != nil {
			fail("generate SQL", err)
		}
	}

	fmt.Println(query)
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "sqlgen: %s: %v\n", step, err)
	os.Exit(1)
}
