package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/bguard/bguard-suite/pkg/audit"
	"github.com/bguard/bguard-suite/pkg/model"
)

// organizationCmd represents the organization command
var organizationCmd = &cobra.Command{
	Use:     "organization",
	Aliases: []string{"org"},
	Short:   "Manage organizations",
	Long:    `Create and delete tenant organizations.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		fatal("Command 'organization' requires a subcommand (create, delete)")
	},
}

func init() {
	rootCmd.AddCommand(organizationCmd)
}

// cliActor is the actor recorded in security events raised by bguardctl.
var cliActor = audit.Actor{Email: "bguardctl", ClientIP: "local"}

// findOrganization resolves ref as an organization id or slug.
func findOrganization(ctx context.Context, database *gorm.DB, ref string) (*model.Organization, error) {
	var org model.Organization
	query := database.WithContext(ctx)
	if id, err := uuid.Parse(ref); err == nil {
		query = query.Where("id = ?", id)
	} else {
		query = query.Where("slug = ?", model.Slugify(ref))
	}
	if err := query.First(&org).Error; err != nil {
		return nil, fmt.Errorf("organization %q not found: %w", ref, err)
	}
	return &org, nil
}
