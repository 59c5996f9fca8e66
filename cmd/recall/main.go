// Command recall is a developer harness for the memory retrieval engine: it
// runs one retrieval against the configured store and prints the ranked
// contexts plus the debug trace. The production API layer consumes the
// retrieval package directly; this binary exists for local inspection.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deliveryos/recall/ai"
	"github.com/deliveryos/recall/internal/profile"
	"github.com/deliveryos/recall/retrieval"
	"github.com/deliveryos/recall/store"
	"github.com/deliveryos/recall/store/db/postgres"
)

var (
	flagProject     string
	flagPhase       string
	flagK           int
	flagSourceTypes []string
	flagSinceDays   int
)

var rootCmd = &cobra.Command{
	Use:   "recall",
	Short: "Hybrid memory retrieval over project delivery artifacts",
}

var queryCmd = &cobra.Command{
	Use:   "query <text>",
	Short: "Run one retrieval and print ranked contexts",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&flagProject, "project", "", "project id to scope the query to (required)")
	queryCmd.Flags().StringVar(&flagPhase, "phase", "", "delivery phase hint (Discovery..Hypercare)")
	queryCmd.Flags().IntVar(&flagK, "k", 0, "number of results (default 8, max 50)")
	queryCmd.Flags().StringSliceVar(&flagSourceTypes, "source-type", nil, "source type allow-list")
	queryCmd.Flags().IntVar(&flagSinceDays, "since-days", 0, "only items created within this many days")
	_ = queryCmd.MarkFlagRequired("project")

	queryCmd.Flags().String("dsn", "", "postgres DSN (overrides RECALL_DSN)")
	viper.SetEnvPrefix("recall")
	viper.AutomaticEnv()
	_ = viper.BindPFlag("dsn", queryCmd.Flags().Lookup("dsn"))

	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	p := &profile.Profile{}
	p.FromEnv()
	if dsn := viper.GetString("dsn"); dsn != "" {
		p.DSN = dsn
	}
	if err := p.Validate(); err != nil {
		return err
	}

	driver, err := postgres.NewDB(p)
	if err != nil {
		return err
	}
	st := store.New(driver, p)
	defer st.Close()

	provider := ai.NewProvider(&ai.Config{
		BaseURL:        p.OpenAIBaseURL,
		APIKey:         p.OpenAIAPIKey,
		EmbeddingModel: p.EmbeddingModel,
	})

	retriever := retrieval.New(retrieval.Config{
		Enabled:        p.IsMemoryEnabled(),
		EmbeddingModel: p.EmbeddingModel,
	}, st, provider, logger)

	result, err := retriever.Retrieve(cmd.Context(), &retrieval.RetrieveInput{
		ProjectID: flagProject,
		Query:     args[0],
		K:         flagK,
		Phase:     flagPhase,
		Filters: retrieval.Filters{
			SourceTypes: flagSourceTypes,
			SinceDays:   flagSinceDays,
		},
	})
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
