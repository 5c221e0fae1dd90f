package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database schema",
	Long: `Создает таблицы и индексы, если их еще нет. Повторный запуск безопасен.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer rt.Close()

		if err := storage.Migrate(cmd.Context(), rt.db, rt.dialect); err != nil {
			rt.log.Error("Migration failed: %v", err)
			return fmt.Errorf("migrate: %w", err)
		}

		rt.log.Info("Schema applied (dialect=%s)", rt.dialect)
		return nil
	},
}
