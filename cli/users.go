// ABOUTME: User management CLI commands
// ABOUTME: Human-friendly commands for listing, editing, and removing users
package cli

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/harperreed/userdesk/handlers"
	"github.com/harperreed/userdesk/models"
)

// confirmInput is read for interactive confirmations; tests substitute it.
var confirmInput io.Reader = os.Stdin

// AddUserCommand creates a new user.
func AddUserCommand(admin *handlers.AdminHandlers, args []string) error {
	fs := flag.NewFlagSet("add-user", flag.ExitOnError)
	username := fs.String("username", "", "Username (required)")
	email := fs.String("email", "", "Email address (required)")
	password := fs.String("password", "", "Initial password (required)")
	role := fs.String("role", string(models.DefaultRole()), "Role (Superintendent, Manager, Coordinator, Collaborator)")
	forceChange := fs.Bool("force-password-change", false, "Require a password change at next login")
	_ = fs.Parse(args)

	u, err := admin.SaveUser(handlers.SaveUserInput{
		Username:            *username,
		Email:               *email,
		Password:            *password,
		Role:                models.Role(*role),
		ForcePasswordChange: *forceChange,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ User created: %s (ID: %d)\n", u.Username, u.ID)
	fmt.Printf("  Email: %s\n", u.Email)
	fmt.Printf("  Role:  %s\n", u.Role)
	return nil
}

// ListUsersCommand lists users, optionally filtered.
func ListUsersCommand(admin *handlers.AdminHandlers, args []string) error {
	fs := flag.NewFlagSet("list-users", flag.ExitOnError)
	query := fs.String("query", "", "Filter by username or email substring")
	_ = fs.Parse(args)

	users := admin.ListUsers(*query)
	if len(users) == 0 {
		fmt.Println("No users found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tROLE\tMUST CHANGE PW")
	_, _ = fmt.Fprintln(w, "--\t--------\t-----\t----\t--------------")
	for _, u := range users {
		change := "-"
		if u.ForcePasswordChange {
			change = "yes"
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Email, u.Role, change)
	}
	_ = w.Flush()

	fmt.Printf("\nTotal: %d user(s)\n", len(users))
	return nil
}

// UpdateUserCommand edits an existing user. Flags left blank keep the
// current value.
func UpdateUserCommand(admin *handlers.AdminHandlers, args []string) error {
	fs := flag.NewFlagSet("update-user", flag.ExitOnError)
	username := fs.String("username", "", "Username")
	email := fs.String("email", "", "Email address")
	role := fs.String("role", "", "Role")
	forceChange := fs.String("force-password-change", "", "true or false")
	_ = fs.Parse(args)

	id, err := parseUserID(fs.Args())
	if err != nil {
		return err
	}

	existing, err := admin.GetUser(id)
	if err != nil {
		return err
	}

	if *username != "" {
		existing.Username = *username
	}
	if *email != "" {
		existing.Email = *email
	}
	if *role != "" {
		existing.Role = models.Role(*role)
	}
	if *forceChange != "" {
		existing.ForcePasswordChange = *forceChange == "true"
	}

	u, err := admin.SaveUser(handlers.SaveUserInput{
		ID:                  &id,
		Username:            existing.Username,
		Email:               existing.Email,
		Role:                existing.Role,
		ForcePasswordChange: existing.ForcePasswordChange,
	})
	if err != nil {
		return err
	}

	fmt.Printf("✓ User updated: %s (ID: %d)\n", u.Username, u.ID)
	return nil
}

// DeleteUserCommand deletes a user after an interactive confirmation
// (or immediately with --yes).
func DeleteUserCommand(admin *handlers.AdminHandlers, args []string) error {
	fs := flag.NewFlagSet("delete-user", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	_ = fs.Parse(args)

	id, err := parseUserID(fs.Args())
	if err != nil {
		return err
	}

	pending, err := admin.RequestDelete(id)
	if err != nil {
		return err
	}

	if !*yes {
		prompt := fmt.Sprintf("Delete user '%s'? This action cannot be undone. [y/N]: ", pending.User.Username)
		if !confirm(prompt) {
			_ = admin.Cancel(pending.Token)
			fmt.Println("Cancelled, nothing deleted")
			return nil
		}
	}

	result, err := admin.Confirm(pending.Token)
	if err != nil {
		return err
	}

	fmt.Printf("✓ User deleted: %s\n", result.User.Username)
	return nil
}

// ResetPasswordCommand resets a user's password after confirmation and
// prints the temporary password.
func ResetPasswordCommand(admin *handlers.AdminHandlers, args []string) error {
	fs := flag.NewFlagSet("reset-password", flag.ExitOnError)
	yes := fs.Bool("yes", false, "Skip the confirmation prompt")
	_ = fs.Parse(args)

	id, err := parseUserID(fs.Args())
	if err != nil {
		return err
	}

	pending, err := admin.RequestPasswordReset(id)
	if err != nil {
		return err
	}

	if !*yes {
		prompt := fmt.Sprintf("Reset password for user '%s'? A temporary password will be generated. [y/N]: ", pending.User.Username)
		if !confirm(prompt) {
			_ = admin.Cancel(pending.Token)
			fmt.Println("Cancelled, nothing changed")
			return nil
		}
	}

	result, err := admin.Confirm(pending.Token)
	if err != nil {
		return err
	}

	fmt.Printf("✓ Password reset for %s\n", result.User.Username)
	fmt.Printf("  Temporary password: %s\n", result.TempPassword)
	fmt.Println("  The user must change it at next login.")
	return nil
}

func parseUserID(args []string) (int, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("user ID is required")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid user ID: %w", err)
	}
	return id, nil
}

func confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(confirmInput)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
