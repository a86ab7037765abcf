package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	ingredientRepo "foodgram-backend/internal/domains/ingredient/repository"
	ingredientService "foodgram-backend/internal/domains/ingredient/service"
	tagRepo "foodgram-backend/internal/domains/tag/repository"
	tagService "foodgram-backend/internal/domains/tag/service"
	infraCache "foodgram-backend/internal/infrastructure/cache"
	"foodgram-backend/internal/infrastructure/importer"
	"foodgram-backend/pkg/container"
)

var loadDataFile string

// manage loaddata ingredients|tags --file data/ingredients.csv
var loadDataCmd = &cobra.Command{
	Use:   "loaddata",
	Short: "Import reference data from .csv or .xlsx (existing rows are skipped)",
}

var loadIngredientsCmd = &cobra.Command{
	Use:   "ingredients",
	Short: "Import ingredients (name,measurement_unit)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rows, err := importer.ReadRows(loadDataFile)
		if err != nil {
			return err
		}
		items, err := importer.ParseIngredients(rows)
		if err != nil {
			return err
		}
		return withServices(cmd, func(ctx context.Context, svc services) error {
			n, err := svc.ingredients.Import(ctx, items)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d ingredient(s)\n", n, len(items))
			return nil
		})
	},
}

var loadTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Import tags (name,slug,color)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		rows, err := importer.ReadRows(loadDataFile)
		if err != nil {
			return err
		}
		tags, err := importer.ParseTags(rows)
		if err != nil {
			return err
		}
		return withServices(cmd, func(ctx context.Context, svc services) error {
			n, err := svc.tags.Import(ctx, tags)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d tag(s)\n", n, len(tags))
			return nil
		})
	},
}

func init() {
	loadDataCmd.PersistentFlags().StringVarP(&loadDataFile, "file", "f", "", "path to .csv or .xlsx file")
	_ = loadDataCmd.MarkPersistentFlagRequired("file")

	loadDataCmd.AddCommand(loadIngredientsCmd)
	loadDataCmd.AddCommand(loadTagsCmd)
}

type services struct {
	ingredients ingredientService.ServiceInterface
	tags        tagService.ServiceInterface
}

// withServices mở DB + cache để import đi qua service layer (validate + invalidate cache)
func withServices(cmd *cobra.Command, fn func(context.Context, services) error) error {
	ctx := cmd.Context()
	cfg, db, err := bootDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	c := container.OpenCache(ctx, cfg.Redis)
	if rc, ok := c.(*infraCache.RedisCache); ok {
		defer rc.Close()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	return fn(ctx, services{
		ingredients: ingredientService.NewIngredientService(ingredientRepo.NewPostgresRepository(db.Pool), c, cfg.API.CacheTTL),
		tags:        tagService.NewTagService(tagRepo.NewPostgresRepository(db.Pool), c, cfg.API.CacheTTL),
	})
}
