package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/allinsys/contactforms/internal/api/dto/v1/contact"
	"github.com/allinsys/contactforms/internal/api/mapper"
	"github.com/allinsys/contactforms/internal/config"
	"github.com/allinsys/contactforms/internal/logging"
	"github.com/allinsys/contactforms/internal/models"
	"github.com/allinsys/contactforms/internal/repository"
	"github.com/allinsys/contactforms/internal/service"
	"github.com/allinsys/contactforms/internal/version"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

var logger *logging.Logger

func initLogger(level string) {
	// Logs go to stderr so stdout stays valid JSON
	logger = logging.NewWriterLogger(os.Stderr, level)
	logging.SetGlobalLogger(logger)
}

var rootCmd = &cobra.Command{
	Use:   "contactctl",
	Short: "Inspect stored contact form submissions",
	Long: `contactctl reads contact form submissions straight from the configured store.
It uses the same environment configuration as the API server.`,
	SilenceUsage: true,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List contacts page by page",
	Long: `List contacts newest first, with the same filters as GET /api/v1/contact.

Example:
  contactctl list --website passb2b --search acme --start-date 2024-01-01 --page 2`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := listParamsFromFlags(cmd)
		if err != nil {
			return err
		}
		return withService(cmd, "Listing contacts...", func(ctx context.Context, svc *service.ContactService) (interface{}, error) {
			page, err := svc.List(ctx, params)
			if err != nil {
				return nil, err
			}
			return mapper.PageToListResponse(page, ""), nil
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a single contact",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, "Fetching contact...", func(ctx context.Context, svc *service.ContactService) (interface{}, error) {
			found, err := svc.GetByID(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return mapper.ContactToDTO(found), nil
		})
	},
}

var websiteCmd = &cobra.Command{
	Use:       "website <tag>",
	Short:     "List every contact of one website",
	ValidArgs: websiteTags(),
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, "Listing contacts for "+args[0]+"...", func(ctx context.Context, svc *service.ContactService) (interface{}, error) {
			contacts, err := svc.ListByWebsite(ctx, args[0])
			if err != nil {
				return nil, err
			}
			return mapper.ContactsToDTOs(contacts), nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "contactctl version: %s\n", version.Info())
	},
}

// listParamsFromFlags reuses the API query mapping so both surfaces filter identically
func listParamsFromFlags(cmd *cobra.Command) (service.ListParams, error) {
	flags := cmd.Flags()
	query := contact.ListContactsQuery{}
	query.Website, _ = flags.GetString("website")
	query.Source, _ = flags.GetString("source")
	query.Search, _ = flags.GetString("search")
	query.StartDate, _ = flags.GetString("start-date")
	query.EndDate, _ = flags.GetString("end-date")
	if flags.Changed("page") {
		page, _ := flags.GetInt("page")
		query.Page = &page
	}
	if flags.Changed("limit") {
		limit, _ := flags.GetInt("limit")
		query.Limit = &limit
	}

	params, err := mapper.ListQueryToParams(&query)
	if err != nil {
		return params, err
	}
	return params, params.Normalize()
}

type serviceCall func(ctx context.Context, svc *service.ContactService) (interface{}, error)

// withService opens the configured store, runs call behind a spinner and prints its result as JSON
func withService(cmd *cobra.Command, status string, call serviceCall) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	repo, closeStore, err := repository.Open(ctx, cfg, nil)
	if err != nil {
		return fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("Failed to close store: %v", err)
		}
	}()

	s := spinner.New(spinner.CharSets[14], 120*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + status
	s.Start()
	result, err := call(ctx, service.NewContactService(repo, cfg.PhoneRegion, nil))
	s.Stop()
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), result)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func websiteTags() []string {
	tags := make([]string, len(models.Websites))
	for i, w := range models.Websites {
		tags[i] = w.String()
	}
	return tags
}

func sourceValues() []string {
	values := make([]string, len(models.Sources))
	for i, s := range models.Sources {
		values[i] = string(s)
	}
	return values
}

func addListFlags(cmd *cobra.Command) {
	cmd.Flags().Int("page", service.DefaultPage, "Page number, starting at 1")
	cmd.Flags().Int("limit", service.DefaultLimit, fmt.Sprintf("Items per page (max %d)", service.MaxLimit))
	cmd.Flags().String("website", "", "Only contacts from this website ("+strings.Join(websiteTags(), ", ")+")")
	cmd.Flags().String("source", "", "Only contacts with this source ("+strings.Join(sourceValues(), ", ")+")")
	cmd.Flags().String("search", "", "Case-insensitive match on name, email or business name")
	cmd.Flags().String("start-date", "", "Created at or after (RFC 3339 or YYYY-MM-DD)")
	cmd.Flags().String("end-date", "", "Created at or before (RFC 3339 or YYYY-MM-DD, whole day)")
}

func init() {
	cobra.OnInitialize(func() {
		level, _ := rootCmd.PersistentFlags().GetString("log-level")
		initLogger(level)
	})

	rootCmd.PersistentFlags().String("log-level", logging.LevelWarn, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Duration("timeout", 30*time.Second, "Timeout for store operations")

	addListFlags(listCmd)

	rootCmd.AddCommand(listCmd, getCmd, websiteCmd, versionCmd)
}

func main() {
	initLogger(logging.LevelWarn)
	if err := rootCmd.Execute(); err != nil {
		logger.Error("%v", err)
		os.Exit(1)
	}
}
