// Command chatgate es la CLI de operación: administra el catálogo de
// providers OAuth directamente contra el storage, sin pasar por la API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/chatgate/internal/config"
	"github.com/dropDatabas3/chatgate/internal/provider"
	"github.com/dropDatabas3/chatgate/internal/store"
	"github.com/dropDatabas3/chatgate/internal/store/core"
)

var configPath string

func main() {
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "chatgate",
		Short:         "chatgate operations CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "configs/config.example.yaml", "Path to YAML config")

	root.AddCommand(pingCmd(), providersCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (core.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return store.New(ctx, store.Config{Driver: cfg.Storage.Driver, DSN: cfg.Storage.DSN})
}

func pingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check storage connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Ping(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
}

func providersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "providers",
		Short:   "Manage OAuth providers",
		Aliases: []string{"provider"},
	}
	cmd.AddCommand(
		providersListCmd(),
		providersCreateCmd(),
		providersUpdateCmd(),
		providersDeleteCmd(),
		providersValidateCmd(),
	)
	return cmd
}

func providersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			defs, err := provider.NewRegistry(st).ListAll(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tDISPLAY\tENABLED\tACTIVE")
			for _, d := range defs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%v\n", d.ID, d.Name, d.DisplayName, d.Enabled, d.Active())
			}
			return w.Flush()
		},
	}
}

func inputFlags(cmd *cobra.Command, in *provider.Input) {
	cmd.Flags().StringVar(&in.Name, "name", "", "Unique provider name (lowercase)")
	cmd.Flags().StringVar(&in.DisplayName, "display-name", "", "Human-readable name")
	cmd.Flags().StringVar(&in.ClientID, "client-id", "", "OAuth client id")
	cmd.Flags().StringVar(&in.ClientSecret, "client-secret", "", "OAuth client secret")
	cmd.Flags().StringVar(&in.AuthorizeURL, "authorize-url", "", "Authorization endpoint")
	cmd.Flags().StringVar(&in.TokenURL, "token-url", "", "Token endpoint")
	cmd.Flags().StringVar(&in.UserInfoURL, "user-info-url", "", "Userinfo endpoint")
	cmd.Flags().StringVar(&in.Scope, "scope", "", "Space-separated scopes")
	cmd.Flags().StringVar(&in.LogoURL, "logo-url", "", "Logo URL")
	cmd.Flags().BoolVar(&in.Enabled, "enabled", false, "Enable the provider")
}

func providersCreateCmd() *cobra.Command {
	var in provider.Input
	var fromTemplate string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromTemplate != "" {
				t, ok := provider.TemplateByName(fromTemplate)
				if !ok {
					return fmt.Errorf("unknown template %q", fromTemplate)
				}
				if in.Name == "" {
					in.Name = t.Name
				}
				if in.DisplayName == "" {
					in.DisplayName = t.DisplayName
				}
				if in.AuthorizeURL == "" {
					in.AuthorizeURL = t.AuthorizeURL
				}
				if in.TokenURL == "" {
					in.TokenURL = t.TokenURL
				}
				if in.UserInfoURL == "" {
					in.UserInfoURL = t.UserInfoURL
				}
				if in.Scope == "" {
					in.Scope = t.Scope
				}
			}

			if errs := provider.Validate(in); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(os.Stderr, "-", e)
				}
				return errors.New("validation failed")
			}

			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			d, err := provider.NewRegistry(st).Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Println("created", d.ID)
			return nil
		},
	}
	inputFlags(cmd, &in)
	cmd.Flags().StringVar(&fromTemplate, "template", "", "Start from a builtin template (github, google, discord, gitlab, microsoft)")
	return cmd
}

func providersUpdateCmd() *cobra.Command {
	var in provider.Input
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a provider (only the flags given change)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := provider.Patch{}
			if cmd.Flags().Changed("name") {
				patch.Name = &in.Name
			}
			if cmd.Flags().Changed("display-name") {
				patch.DisplayName = &in.DisplayName
			}
			if cmd.Flags().Changed("client-id") {
				patch.ClientID = &in.ClientID
			}
			if cmd.Flags().Changed("client-secret") {
				patch.ClientSecret = &in.ClientSecret
			}
			if cmd.Flags().Changed("authorize-url") {
				patch.AuthorizeURL = &in.AuthorizeURL
			}
			if cmd.Flags().Changed("token-url") {
				patch.TokenURL = &in.TokenURL
			}
			if cmd.Flags().Changed("user-info-url") {
				patch.UserInfoURL = &in.UserInfoURL
			}
			if cmd.Flags().Changed("scope") {
				patch.Scope = &in.Scope
			}
			if cmd.Flags().Changed("logo-url") {
				patch.LogoURL = &in.LogoURL
			}
			if cmd.Flags().Changed("enabled") {
				patch.Enabled = &in.Enabled
			}

			if errs := provider.ValidatePatch(patch); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(os.Stderr, "-", e)
				}
				return errors.New("validation failed")
			}

			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			d, err := provider.NewRegistry(st).Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Println("updated", d.ID)
			return nil
		},
	}
	inputFlags(cmd, &in)
	return cmd
}

func providersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := provider.NewRegistry(st).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

func providersValidateCmd() *cobra.Command {
	var in provider.Input
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate provider fields without persisting",
		RunE: func(cmd *cobra.Command, args []string) error {
			if errs := provider.Validate(in); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(os.Stderr, "-", e)
				}
				return errors.New("validation failed")
			}
			fmt.Println("valid")
			return nil
		},
	}
	inputFlags(cmd, &in)
	return cmd
}
