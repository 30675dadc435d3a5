package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/db"
	gormstore "github.com/bguard/bguard-suite/pkg/server/store/gorm"
)

// organizationDeleteCmd represents the organization delete command
var organizationDeleteCmd = &cobra.Command{
	Use:   "delete <id-or-slug>",
	Short: "Delete an organization and everything in it",
	Long: `Delete an organization.

Every user, threat model, asset, review, report and security event of the
organization is deleted with it. Unless --yes is given the command asks for
the slug to be typed back.

Example:
  bguardctl organization delete acme
  bguardctl organization delete 3f0c2b1e-8c4d-4f67-9a5b-2d1e0f3c4b5a --yes`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		yes, _ := cmd.Flags().GetBool("yes")
		if err := deleteOrganization(cmd.Context(), args[0], yes); err != nil {
			fatal("Failed to delete organization: %v", err)
		}
	},
}

func init() {
	organizationCmd.AddCommand(organizationDeleteCmd)
	organizationDeleteCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

func deleteOrganization(ctx context.Context, ref string, yes bool) error {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	org, err := findOrganization(ctx, database, ref)
	if err != nil {
		return err
	}

	if !yes {
		fmt.Fprintf(os.Stderr, "%s Type the slug %s to delete '%s': ",
			warnStyle.Render("This deletes every record of the organization."),
			keyStyle.Render(org.Slug), org.Name)
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if strings.TrimSpace(answer) != org.Slug {
			return fmt.Errorf("confirmation did not match, nothing deleted")
		}
	}

	err = gormstore.NewOrganizationsStore(database).Delete(ctx, org.ID)
	event := audit.OrganizationEvent{Actor: cliActor, Operation: "delete", OrganizationID: org.ID.String(), Name: org.Name, Success: err == nil}
	if err != nil {
		event.ErrorMessage = err.Error()
	}
	audit.Log(event)
	if err != nil {
		return err
	}

	printOK("Deleted organization '%s'", org.Name)
	return nil
}
