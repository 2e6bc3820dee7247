package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// knownKeys documents the configuration keys the pipeline reads.
var knownKeys = []string{
	"notion.token",
	"notion.parent_page_id",
	"graph.token",
	"import.concurrency",
	"import.max_depth",
	"watch.dirs",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage notelift configuration",
	Long: `View and set configuration values stored in the notelift config file.

Known keys:
  notion.token           Notion integration token
  notion.parent_page_id  Notion page imported notebooks are created under
  graph.token            Microsoft Graph access token for OneDrive fetches
  import.concurrency     Default concurrent fetches
  import.max_depth       Default hierarchy depth limit
  watch.dirs             Directories watched for notebook changes`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.

When the value is omitted for a secret key (any key ending in .token),
it is read from the terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Printf("Config file: %s\n\n", configStore.Path())

	keys := make([]string, len(knownKeys))
	copy(keys, knownKeys)
	sort.Strings(keys)

	for _, key := range keys {
		val, ok := configStore.Get(key)
		if !ok {
			cmd.Printf("  %-22s (not set)\n", key)
			continue
		}
		if isSecretKey(key) {
			cmd.Printf("  %-22s %s\n", key, maskSecret(fmt.Sprint(val)))
			continue
		}
		cmd.Printf("  %-22s %v\n", key, val)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	val, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}

	cmd.Printf("%v\n", val)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]

	var value string
	if len(args) == 2 {
		value = args[1]
	} else if isSecretKey(key) {
		cmd.Printf("Enter value for %s: ", key)
		value = readSecret()
		cmd.Println()
		if value == "" {
			return errors.New("empty value")
		}
	} else {
		return errors.New("value required")
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	if isSecretKey(key) {
		cmd.Printf("Set %s = %s\n", key, maskSecret(value))
	} else {
		cmd.Printf("Set %s = %s\n", key, value)
	}
	return nil
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, ".token")
}

//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	// Read without echo when attached to a terminal
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(secret)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskSecret(value string) string {
	if len(value) <= 8 {
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}
