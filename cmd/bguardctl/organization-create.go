package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/db"
	"github.com/bguard/bguard-suite/pkg/model"
	"github.com/bguard/bguard-suite/pkg/server/store"
	gormstore "github.com/bguard/bguard-suite/pkg/server/store/gorm"
)

// organizationCreateCmd represents the organization create command
var organizationCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create an organization",
	Long: `Create a tenant organization.

The slug is derived from the name unless --slug is given. The new
organization's id is printed to stdout.

Example:
  bguardctl organization create "Acme Corp"
  bguardctl organization create "Acme Corp" --slug acme --industry fintech`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		slug, _ := cmd.Flags().GetString("slug")
		industry, _ := cmd.Flags().GetString("industry")

		org, err := createOrganization(cmd.Context(), args[0], slug, industry)
		if err != nil {
			fatal("Failed to create organization: %v", err)
		}

		printOK("Created organization '%s' (%s)", org.Name, org.Slug)
		fmt.Println(org.ID)
	},
}

func init() {
	organizationCmd.AddCommand(organizationCreateCmd)
	organizationCreateCmd.Flags().String("slug", "", "URL slug (default: derived from the name)")
	organizationCreateCmd.Flags().String("industry", "", "Industry of the organization")
}

func newOrganization(name, slug, industry string) (*model.Organization, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("name is required")
	}
	if slug == "" {
		slug = name
	}
	slug = model.Slugify(slug)
	if slug == "" {
		return nil, fmt.Errorf("cannot derive a slug from %q", name)
	}
	return &model.Organization{
		Name:     name,
		Slug:     slug,
		Industry: strings.TrimSpace(industry),
		Active:   true,
	}, nil
}

func createOrganization(ctx context.Context, name, slug, industry string) (*model.Organization, error) {
	org, err := newOrganization(name, slug, industry)
	if err != nil {
		return nil, err
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, err
	}

	err = gormstore.NewOrganizationsStore(database).Create(ctx, org)
	event := audit.OrganizationEvent{Actor: cliActor, Operation: "create", Name: org.Name, Success: err == nil}
	if err != nil {
		event.ErrorMessage = err.Error()
		audit.Log(event)
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("an organization named '%s' or with slug '%s' already exists", org.Name, org.Slug)
		}
		return nil, err
	}
	event.OrganizationID = org.ID.String()
	audit.Log(event)
	return org, nil
}
