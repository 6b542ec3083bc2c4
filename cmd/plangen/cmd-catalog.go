package main

import (
	"log/slog"

	"github.com/myrjola/fitcoach/internal/coaching"
	"github.com/myrjola/fitcoach/internal/errors"
	"github.com/myrjola/fitcoach/internal/sqlite"
	"github.com/spf13/cobra"
)

func newCatalogCmd(logger *slog.Logger) *cobra.Command {
	catalog := &cobra.Command{
		Use:   "catalog",
		Short: "Work with the exercise and nutrition catalogs",
	}

	var sqliteURL string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the seeded catalogs of a database as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCatalogExport(cmd, logger, sqliteURL)
		},
	}
	export.Flags().StringVar(&sqliteURL, "sqlite-url", ":memory:",
		"database to read, the built-in catalog is used for :memory:")
	catalog.AddCommand(export)
	return catalog
}

func runCatalogExport(cmd *cobra.Command, logger *slog.Logger, sqliteURL string) (err error) {
	ctx := cmd.Context()
	db, err := sqlite.NewDatabase(ctx, sqliteURL, logger)
	if err != nil {
		return errors.Wrap(err, "open db", slog.String("url", sqliteURL))
	}
	defer func() {
		err = errors.Join(err, db.Close())
	}()

	var file catalogFile
	if file.Exercises, err = coaching.NewExerciseRepository(db).List(ctx, coaching.ExerciseFilter{}); err != nil {
		return errors.Wrap(err, "list exercises")
	}
	if file.NutritionItems, err = coaching.NewNutritionRepository(db).List(ctx, coaching.NutritionFilter{}); err != nil {
		return errors.Wrap(err, "list nutrition items")
	}
	return writeYAML(cmd.OutOrStdout(), file)
}
