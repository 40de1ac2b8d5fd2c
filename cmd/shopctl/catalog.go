package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wichananm65/shop-assistant-backend/internal/product"
)

func newExportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the product catalog to an xlsx workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			products, err := product.NewPostgresRepository(db).List(ctx)
			if err != nil {
				return fmt.Errorf("list products: %w", err)
			}

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			if err := product.WriteXLSX(f, products); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			log.Info("catalog exported", zap.String("file", out), zap.Int("products", len(products)))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "products.xlsx", "output workbook path")
	return cmd
}

func newImportCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load products from an xlsx workbook",
		Long: `Import reads the first sheet of the workbook. The header row is skipped and
the columns are name, category, price, description, stock, rating, image_url.
Rows that cannot be parsed or fail validation are skipped and reported.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := openDB(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			rows, skipped, err := readWorkbook(file)
			if err != nil {
				return err
			}

			created, rejected, err := product.NewService(product.NewPostgresRepository(db)).Import(ctx, rows)
			if err != nil {
				return err
			}
			logRejected(log, skipped, rejected)
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", len(created), len(skipped)+len(rejected))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "workbook to import")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readWorkbook(path string) ([]product.Product, []int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return product.ReadXLSX(f)
}

func logRejected(log *zap.Logger, skipped []int, rejected map[int]map[string]string) {
	for _, row := range skipped {
		log.Warn("unparsable row", zap.Int("row", row))
	}
	for i, errs := range rejected {
		log.Warn("invalid row", zap.Int("row", i), zap.Any("errors", errs))
	}
}
