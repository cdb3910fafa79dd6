package cmd

import (
	"fmt"
	"os"

	"github.com/longkey1/notionquery/internal/notion/api"
	"github.com/longkey1/notionquery/internal/notionquery/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Show current configuration settings.

Displays the effective configuration from environment variables and the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfig()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig() error {
	configDir, err := config.GetConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	fmt.Println("Current Configuration")
	fmt.Println("=====================")
	fmt.Println()

	if cfg.Token != "" {
		fmt.Printf("Token:                %s\n", maskToken(cfg.Token))
	} else {
		fmt.Println("Token:                (not set)")
	}
	fmt.Printf("Base URL:             %s\n", orDefault(cfg.BaseURL, api.DefaultBaseURL))
	fmt.Printf("Notion version:       %s\n", orDefault(cfg.NotionVersion, api.DefaultNotionVersion))
	fmt.Printf("Relation concurrency: %d\n", cfg.RelationConcurrency)
	fmt.Printf("Log level:            %s\n", cfg.LogLevel)

	fmt.Println()
	fmt.Println("Sources")
	fmt.Println("-------")

	for _, env := range []string{"NOTIONQUERY_TOKEN", "NOTION_TOKEN", "NOTIONQUERY_BASE_URL", "NOTIONQUERY_RELATION_CONCURRENCY", "NOTIONQUERY_LOG_LEVEL"} {
		if os.Getenv(env) != "" {
			fmt.Printf("%-34s set\n", env+":")
		}
	}

	configPath := config.ConfigFilePath(configDir)
	if _, err := os.Stat(configPath); err == nil {
		fmt.Printf("Config file:                       %s\n", configPath)
	} else {
		fmt.Println("Config file:                       (not found)")
	}

	return nil
}

func maskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}

func orDefault(value, def string) string {
	if value == "" {
		return def + " (default)"
	}
	return value
}
