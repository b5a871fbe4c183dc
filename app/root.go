// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-content-admin",
	Short: "GoContent-Admin is the identity and access backend of a web CMS",
	Long: `GoContent-Admin provides the identity and access-control core of a
web content management system: login with captcha and lockout handling,
bearer token issuance and a role-based permission graph for the admin UI.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
