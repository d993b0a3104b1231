// ABOUTME: Entry point for the userdesk console, API server, and CLI
// ABOUTME: Routes to the TUI, HTTP server, or user commands based on arguments
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/harperreed/userdesk/activity"
	"github.com/harperreed/userdesk/cli"
	"github.com/harperreed/userdesk/config"
	"github.com/harperreed/userdesk/handlers"
	"github.com/harperreed/userdesk/kv"
	"github.com/harperreed/userdesk/models"
	"github.com/harperreed/userdesk/store"
	"github.com/harperreed/userdesk/tui"
	"github.com/harperreed/userdesk/web"
)

const version = "0.1.0"

func main() {
	// Optional .env for local overrides; absence is fine
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dataDir := flag.String("data-dir", "", "Activity log directory (default: ~/.local/share/userdesk)")
	addr := flag.String("addr", "", "Listen address for serve (default: :8080)")
	noSeed := flag.Bool("no-seed", false, "Start with an empty user list")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	if *showVersion {
		fmt.Printf("userdesk version %s\n", version)
		os.Exit(0)
	}

	cfg := config.Load()
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *addr != "" {
		cfg.ListenAddr = *addr
	}
	if *noSeed {
		cfg.Seed = false
	}

	diag := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "userdesk",
	})

	storage, err := kv.Open(cfg.DataDir)
	if err != nil {
		diag.Fatal("Failed to open activity storage", "dir", cfg.DataDir, "error", err)
	}
	defer storage.Close()

	logger := activity.NewLogger(storage).WithDiagnostics(diag)

	var seed []models.User
	if cfg.Seed {
		seed = store.SeedUsers()
	}
	admin := handlers.NewAdminHandlers(store.NewUserStore(logger, seed), logger)

	args := flag.Args()

	// No command launches the interactive console
	command := "tui"
	var commandArgs []string
	if len(args) > 0 {
		command = args[0]
		commandArgs = args[1:]
	}

	switch command {
	case "tui":
		p := tea.NewProgram(tui.NewModel(admin), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			diag.Fatal("TUI failed", "error", err)
		}

	case "serve":
		diag.Info("Starting API server", "addr", cfg.ListenAddr, "data", cfg.DataDir)
		if err := web.NewServer(admin).Start(cfg.ListenAddr); err != nil {
			diag.Fatal("Server failed", "error", err)
		}

	case "users":
		if len(commandArgs) == 0 {
			fmt.Println("Error: users requires a subcommand")
			printUsage()
			os.Exit(1)
		}

		userCommand := commandArgs[0]
		userArgs := commandArgs[1:]

		switch userCommand {
		case "add":
			if err := cli.AddUserCommand(admin, userArgs); err != nil {
				diag.Fatal("Error", "error", err)
			}
		case "list":
			if err := cli.ListUsersCommand(admin, userArgs); err != nil {
				diag.Fatal("Error", "error", err)
			}
		case "update":
			if err := cli.UpdateUserCommand(admin, userArgs); err != nil {
				diag.Fatal("Error", "error", err)
			}
		case "delete":
			if err := cli.DeleteUserCommand(admin, userArgs); err != nil {
				diag.Fatal("Error", "error", err)
			}
		case "reset-password":
			if err := cli.ResetPasswordCommand(admin, userArgs); err != nil {
				diag.Fatal("Error", "error", err)
			}
		default:
			fmt.Printf("Unknown users command: %s\n\n", userCommand)
			printUsage()
			os.Exit(1)
		}

	case "logs":
		if err := cli.LogsCommand(admin, commandArgs); err != nil {
			diag.Fatal("Error", "error", err)
		}

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`userdesk v%s - Local user administration console

USAGE:
  userdesk [global flags] <command> [subcommand] [flags]

GLOBAL FLAGS:
  --version              Show version and exit
  --data-dir <path>      Activity log directory (default: ~/.local/share/userdesk)
  --addr <addr>          Listen address for serve (default: :8080)
  --no-seed              Start with an empty user list

COMMANDS:
  tui                    Launch the interactive console (default)
  serve                  Start the JSON API server
  users                  User management commands
  logs                   Show the activity log

USER COMMANDS:
  userdesk users add        Add a new user
    --username <name>         Username (required)
    --email <email>           Email address (required)
    --password <pw>           Initial password (required)
    --role <role>             Role (default: Collaborator)
    --force-password-change   Require a password change at next login

  userdesk users list       List users
    --query <text>            Search by username or email

  userdesk users update [flags] <id>  Update an existing user
    --username <name>         Username
    --email <email>           Email address
    --role <role>             Role
    --force-password-change <bool>  Require a password change at next login
    Note: flags must come before the user ID

  userdesk users delete <id>  Delete a user (asks for confirmation)
    --yes                     Skip the confirmation prompt

  userdesk users reset-password <id>  Reset a user's password
    --yes                     Skip the confirmation prompt

LOG COMMANDS:
  userdesk logs             Show activity log entries, newest first
    --action <action>         Filter by exact action name
    --date <prefix>           Filter by timestamp date prefix (e.g. 2026-09)

EXAMPLES:
  # Launch the console
  userdesk

  # Start the API server on another port
  userdesk --addr :9090 serve

  # Add a user
  userdesk users add --username "gabriela.nunes" --email "gabriela@example.com" --password "secret" --role Manager

  # Delete without the prompt
  userdesk users delete --yes 3

  # Recent password resets
  userdesk logs --action "Password Reset"

`, version)
}
