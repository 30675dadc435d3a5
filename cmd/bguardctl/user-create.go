package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/db"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
	gormstore "github.com/bguard/bguard-suite/pkg/server/store/gorm"
	"github.com/bguard/bguard-suite/pkg/session"
)

// readPassword is swapped out in tests.
var readPassword = term.ReadPassword

// userCreateCmd represents the user create command
var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user",
	Long: `Create a user account.

The password is prompted for without echo. With --password-stdin it is read
from the first line of stdin instead, for scripted setups. Every role except
PLATFORM_ADMIN needs an organization, given by id or slug.

Example:
  bguardctl user create --email root@bguard.test --role PLATFORM_ADMIN
  bguardctl user create --email alice@acme.test --name Alice --organization acme --role BUSINESS_ADMIN
  echo "$PASSWORD" | bguardctl user create --email ci@acme.test --organization acme --password-stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		email, _ := cmd.Flags().GetString("email")
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		org, _ := cmd.Flags().GetString("organization")
		fromStdin, _ := cmd.Flags().GetBool("password-stdin")

		input, err := newUserInput(email, name, role, org)
		if err != nil {
			fatal("%v", err)
		}

		password, err := promptPassword(os.Stdin, os.Stderr, fromStdin)
		if err != nil {
			fatal("Failed to read password: %v", err)
		}

		user, err := createUser(cmd.Context(), input, password)
		if err != nil {
			fatal("Failed to create user: %v", err)
		}

		printOK("Created %s %s", user.Role, user.Email)
		fmt.Println(user.ID)
	},
}

func init() {
	userCmd.AddCommand(userCreateCmd)
	userCreateCmd.Flags().StringP("email", "e", "", "Email address used to log in")
	userCreateCmd.Flags().StringP("name", "n", "", "Display name")
	userCreateCmd.Flags().StringP("role", "r", model.RoleBusinessUser.String(), "PLATFORM_ADMIN, BUSINESS_ADMIN, BUSINESS_USER or USER")
	userCreateCmd.Flags().StringP("organization", "o", "", "Organization id or slug")
	userCreateCmd.Flags().Bool("password-stdin", false, "Read the password from stdin")
	_ = userCreateCmd.MarkFlagRequired("email")
}

type userInput struct {
	Email        string
	Name         string
	Role         model.Role
	Organization string
}

func newUserInput(email, name, role, org string) (*userInput, error) {
	in := &userInput{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		Name:         strings.TrimSpace(name),
		Organization: strings.TrimSpace(org),
	}
	if !strings.Contains(in.Email, "@") {
		return nil, errors.New("a valid --email is required")
	}
	r, err := model.ParseRole(role)
	if err != nil {
		return nil, err
	}
	in.Role = r
	if in.Role != model.RolePlatformAdmin && in.Organization == "" {
		return nil, fmt.Errorf("--organization is required for role %s", in.Role)
	}
	return in, nil
}

// promptPassword reads a password twice from the terminal, or once from in
// when fromStdin is set.
func promptPassword(in *os.File, out io.Writer, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return "", err
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fmt.Fprint(out, "Password: ")
	first, err := readPassword(int(in.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	fmt.Fprint(out, "Confirm password: ")
	second, err := readPassword(int(in.Fd()))
	fmt.Fprintln(out)
	if err != nil {
		return "", err
	}
	if !bytes.Equal(first, second) {
		return "", errors.New("passwords do not match")
	}
	return string(first), nil
}

func createUser(ctx context.Context, in *userInput, password string) (*model.User, error) {
	hash, err := session.HashPassword(password)
	if err != nil {
		return nil, err
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        in.Email,
		Name:         in.Name,
		PasswordHash: hash,
		Role:         in.Role,
		Active:       true,
	}
	if in.Organization != "" {
		org, err := findOrganization(ctx, database, in.Organization)
		if err != nil {
			return nil, err
		}
		user.OrganizationID = &org.ID
	}

	err = gormstore.NewUsersStore(database).Create(ctx, user)
	event := audit.UserEvent{
		Actor:          cliActor,
		Operation:      "create",
		TargetEmail:    user.Email,
		Role:           user.Role.String(),
		Success:        err == nil,
		OrganizationID: user.OrganizationID,
	}
	if err != nil {
		event.ErrorMessage = err.Error()
		audit.Log(event)
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("a user with email %s already exists", user.Email)
		}
		return nil, err
	}
	event.TargetID = user.ID.String()
	audit.Log(event)
	return user, nil
}
