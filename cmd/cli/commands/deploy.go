package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jaeyoung-onebird/workproof/pkg/core/format"
	"github.com/jaeyoung-onebird/workproof/pkg/deploy"
)

// DeployCmd creates the deploy command group for WPT token deployment records
func DeployCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Record or show WPT token deployments",
	}

	cmd.AddCommand(deployRecordCmd(app), deployShowCmd(app))
	return cmd
}

func deployRecordCmd(app *AppContext) *cobra.Command {
	var rec deploy.Record
	var deployedAt string

	cmd := &cobra.Command{
		Use:   "record <network>",
		Short: "Write deployments/<network>.json from the deployment output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			record := rec
			record.Network = args[0]

			if deployedAt == "" {
				record.DeployedAt = app.now().UTC()
			} else {
				t, err := parseTime(deployedAt)
				if err != nil {
					return err
				}
				record.DeployedAt = t.UTC()
			}

			path, err := deploy.Write(app.Cfg.DeploymentsDir, &record)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ %s\n", app.Translator.T("deploy.recorded", map[string]any{"Network": record.Network}))
			fmt.Printf("Path: %s\n\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&rec.ProxyAddress, "proxy", "", "Proxy contract address")
	cmd.Flags().StringVar(&rec.ImplementationAddress, "implementation", "", "Implementation contract address")
	cmd.Flags().StringVar(&rec.Deployer, "deployer", "", "Deployer account address")
	cmd.Flags().StringVar(&deployedAt, "deployed-at", "", "Deployment time (defaults to now)")
	cmd.Flags().StringVar(&rec.TokenInfo.Name, "token-name", "WorkProof Token", "Token name")
	cmd.Flags().StringVar(&rec.TokenInfo.Symbol, "token-symbol", "WPT", "Token symbol")
	cmd.Flags().IntVar(&rec.TokenInfo.Decimals, "decimals", 18, "Token decimals")
	cmd.Flags().StringVar(&rec.TokenInfo.InitialSupply, "initial-supply", "", "Initial supply in base units")
	cmd.MarkFlagRequired("proxy")
	cmd.MarkFlagRequired("implementation")
	cmd.MarkFlagRequired("deployer")
	cmd.MarkFlagRequired("initial-supply")
	return cmd
}

func deployShowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <network>",
		Short: "Print the deployment record for a network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := deploy.Read(app.Cfg.DeploymentsDir, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n%s deployment\n\n", rec.Network)
			fmt.Printf("Proxy:           %s\n", rec.ProxyAddress)
			fmt.Printf("Implementation:  %s\n", rec.ImplementationAddress)
			fmt.Printf("Deployer:        %s\n", rec.Deployer)
			fmt.Printf("Deployed at:     %s\n", format.DateTimeOf(rec.DeployedAt))
			fmt.Printf("Token:           %s (%s), %d decimals\n", rec.TokenInfo.Name, rec.TokenInfo.Symbol, rec.TokenInfo.Decimals)
			fmt.Printf("Initial supply:  %s\n\n", rec.TokenInfo.InitialSupply)
			return nil
		},
	}
}
