package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "clinic",
	Short: "Clinic appointment scheduling service",
	Long: `HTTP API клиники: пациенты, процедуры, записи на прием с проверкой
свободных слотов и финансовый учет.

Examples:
  clinic serve                     # запустить HTTP сервер
  clinic migrate                   # применить схему БД
  clinic seed --patients 50        # заполнить БД тестовыми данными`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
