package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/argo-platform/program-service/internal/services/access"
)

var (
	accessProgram string
	accessTimeout time.Duration
)

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Inspect and reconcile a program's identity-service access",
	Long: `Re-runs access reconciliation for one program outside the API, for
example after an identity-service outage left a program partially provisioned.`,
}

// runAccess builds the program service and runs fn against the --program value.
func runAccess(cmd *cobra.Command, fn func(ctx context.Context, c *components, shortName string) error) error {
	shortName := strings.ToUpper(strings.TrimSpace(accessProgram))
	if shortName == "" {
		return fmt.Errorf("--program is required")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), accessTimeout)
	defer cancel()

	c, err := buildComponents(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	return fn(ctx, c, shortName)
}

var accessProvisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create missing groups, policy and masks and sync members",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAccess(cmd, func(ctx context.Context, c *components, shortName string) error {
			spinner, _ := pterm.DefaultSpinner.Start("Provisioning " + shortName)
			if err := c.programs.ReconcileProgram(ctx, shortName); err != nil {
				spinner.Fail(err.Error())
				return fmt.Errorf("provision %s: %w", shortName, err)
			}
			spinner.Success("Provisioned " + shortName)
			return renderStatus(ctx, c, shortName)
		})
	},
}

var accessDeprovisionCmd = &cobra.Command{
	Use:   "deprovision",
	Short: "Delete the program's groups and policy, keeping the program record",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAccess(cmd, func(ctx context.Context, c *components, shortName string) error {
			if err := c.programs.DeprovisionProgram(ctx, shortName); err != nil {
				return fmt.Errorf("deprovision %s: %w", shortName, err)
			}
			pterm.Success.Printf("Deprovisioned %s\n", shortName)
			return nil
		})
	},
}

var accessStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Compare local membership with identity-service groups and masks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAccess(cmd, renderStatus)
	},
}

func renderStatus(ctx context.Context, c *components, shortName string) error {
	status, err := c.programs.AccessStatus(ctx, shortName)
	if err != nil {
		return fmt.Errorf("status %s: %w", shortName, err)
	}

	policy := status.PolicyID
	if policy == "" {
		policy = "missing"
	}
	pterm.DefaultSection.Printf("%s (policy %s: %s)", status.ShortName, status.PolicyName, policy)

	table := pterm.TableData{{"ROLE", "GROUP", "BOUND", "MASK", "WANT", "DESIRED", "MISSING", "SURPLUS", "IN SYNC"}}
	for _, rs := range status.Roles {
		table = append(table, roleRow(rs))
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(table).Render(); err != nil {
		return err
	}

	if !status.InSync() {
		pterm.Warning.Printf("%s is out of sync; run 'programapi access provision --program %s'\n", shortName, shortName)
		return nil
	}
	pterm.Success.Printf("%s is in sync\n", shortName)
	return nil
}

func roleRow(rs access.RoleStatus) []string {
	group := rs.GroupName
	if !rs.Exists {
		group += " (missing)"
	}
	mask := string(rs.Mask)
	if mask == "" {
		mask = "-"
	}
	return []string{
		string(rs.Role),
		group,
		strconv.FormatBool(rs.Bound),
		mask,
		string(rs.WantMask),
		strconv.Itoa(rs.Desired),
		strconv.Itoa(len(rs.Missing)),
		strconv.Itoa(len(rs.Surplus)),
		strconv.FormatBool(rs.InSync()),
	}
}

func init() {
	accessCmd.PersistentFlags().StringVar(&accessProgram, "program", "", "Program short name")
	accessCmd.PersistentFlags().DurationVar(&accessTimeout, "timeout", 2*time.Minute, "Overall timeout")

	accessCmd.AddCommand(accessProvisionCmd)
	accessCmd.AddCommand(accessDeprovisionCmd)
	accessCmd.AddCommand(accessStatusCmd)
	rootCmd.AddCommand(accessCmd)
}
