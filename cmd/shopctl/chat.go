package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wichananm65/shop-assistant-backend/internal/chatbot"
	"github.com/wichananm65/shop-assistant-backend/internal/product"
)

func newChatCmd() *cobra.Command {
	var (
		catalogFile string
		message     string
		userID      int
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Talk to the shopping assistant from the terminal",
		Long: `Chat answers each line read from stdin until EOF or "quit".

The catalog comes from the database when DATABASE_URL is set. Otherwise pass
--catalog with an xlsx workbook to load an in-memory catalog.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var catalog chatbot.Catalog
			switch {
			case catalogFile != "":
				rows, skipped, err := readWorkbook(catalogFile)
				if err != nil {
					return err
				}
				repo, err := loadCatalog(ctx, rows, skipped, log)
				if err != nil {
					return err
				}
				catalog = repo
			case cfg.DatabaseURL != "":
				db, err := openDB(ctx)
				if err != nil {
					return err
				}
				defer db.Close()
				catalog = product.NewPostgresRepository(db)
			default:
				return fmt.Errorf("no catalog: set DATABASE_URL or pass --catalog")
			}

			bot := chatbot.New(catalog)
			if message != "" {
				reply, err := bot.GenerateResponse(ctx, message, userID)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
				return nil
			}
			return runChat(ctx, bot, userID, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&catalogFile, "catalog", "", "xlsx workbook to use as an in-memory catalog")
	cmd.Flags().StringVarP(&message, "message", "m", "", "answer a single message and exit")
	cmd.Flags().IntVar(&userID, "user", 0, "user id passed to the assistant")
	return cmd
}

// loadCatalog builds an in-memory catalog from workbook rows. Rows are
// validated the same way as an import, and rejected rows are logged.
func loadCatalog(ctx context.Context, rows []product.Product, skipped []int, log *zap.Logger) (*product.InMemoryRepository, error) {
	repo := product.NewInMemoryRepository(nil)
	created, rejected, err := product.NewService(repo).Import(ctx, rows)
	if err != nil {
		return nil, err
	}
	logRejected(log, skipped, rejected)
	log.Debug("catalog loaded", zap.Int("products", len(created)))
	return repo, nil
}

type responder interface {
	GenerateResponse(ctx context.Context, message string, userID int) (chatbot.Reply, error)
}

func runChat(ctx context.Context, bot responder, userID int, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == "quit" || line == "exit":
			return nil
		default:
			reply, err := bot.GenerateResponse(ctx, line, userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, reply.Text)
			fmt.Fprintln(out)
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}
