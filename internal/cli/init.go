package cli

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup, then start the server",
	Long: `Walk through backend and provider configuration, write the answers
to .env, and start the server.

Example:
  leadline init`,
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	env := map[string]string{}

	backend, err := promptBackend()
	if err != nil {
		return err
	}
	if backend == "redis" {
		url, err := promptString("Redis URL", "redis://localhost:6379", false)
		if err != nil {
			return err
		}
		env["LEADLINE_REDIS_URL"] = url
	}

	apiKey, err := promptString("Retell API key (empty to skip call triggers)", "", true)
	if err != nil {
		return err
	}
	if apiKey != "" {
		env["LEADLINE_RETELL_API_KEY"] = apiKey
		agentID, err := promptString("Retell agent ID", "", false)
		if err != nil {
			return err
		}
		env["LEADLINE_RETELL_AGENT_ID"] = agentID
		fromNumber, err := promptString("Outbound from-number (empty for provider default)", "", true)
		if err != nil {
			return err
		}
		if fromNumber != "" {
			env["LEADLINE_RETELL_FROM_NUMBER"] = fromNumber
		}
	}

	token, err := promptString("Dashboard token", generateToken(), false)
	if err != nil {
		return err
	}
	env["LEADLINE_STATS_TOKEN"] = token

	port, err := promptPort()
	if err != nil {
		return err
	}
	env["LEADLINE_PORT"] = strconv.Itoa(port)

	if err := godotenv.Write(env, ".env"); err != nil {
		return fmt.Errorf("failed to write .env: %w", err)
	}

	// Make the answers effective for the server we are about to start.
	for key, value := range env {
		os.Setenv(key, value)
	}

	printStartupInstructions(port, token)
	return runServe(cmd, args)
}

func promptBackend() (string, error) {
	prompt := promptui.Select{
		Label: "Storage backend",
		Items: []string{
			"Embedded SQLite (single binary, no dependencies)",
			"Redis (production)",
		},
	}
	idx, _, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return "", err
	}
	if idx == 1 {
		return "redis", nil
	}
	return "sqlite", nil
}

func promptString(label, defaultValue string, allowEmpty bool) (string, error) {
	prompt := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
	}
	if !allowEmpty {
		prompt.Validate = func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("value required")
			}
			return nil
		}
	}
	value, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(0)
		}
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func promptPort() (int, error) {
	raw, err := promptString("Port", "8080", false)
	if err != nil {
		return 0, err
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid port: %s", raw)
	}
	return port, nil
}

func generateToken() string {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return "a1b2c3d4"
	}
	return hex.EncodeToString(bytes)
}

func printStartupInstructions(port int, token string) {
	fmt.Println()
	fmt.Println("Configuration written to .env")
	fmt.Println()
	fmt.Printf("Dashboard: http://localhost:%d/stats?token=%s\n", port, token)
	fmt.Println()
	fmt.Println(strings.Repeat("-", 60))
	fmt.Println()
	fmt.Println("1. Deploy leadline to get a public URL")
	fmt.Println()
	fmt.Println("2. Add the script to your landing page")
	fmt.Println()
	fmt.Println("   <script src=\"https://YOUR-URL/lp.js\" defer></script>")
	fmt.Println()
	fmt.Println("3. Wire the lead form to POST /submit and call")
	fmt.Println("   window.leadline.convert() on success")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  stats     Show the current report")
	fmt.Println("  winner    Show the significant winner, if any")
	fmt.Println("  export    Export captured leads")
	fmt.Println("  snippet   Show embed code")
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop")
}
