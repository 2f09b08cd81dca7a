package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gridctl/maturinctl/pkg/dispatch"
	"github.com/gridctl/maturinctl/pkg/logging"
	"github.com/gridctl/maturinctl/pkg/output"
	release "github.com/gridctl/maturinctl/pkg/version"
)

var planInputs *inputFlags

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show what run would do without executing anything",
	Long: `Resolves the inputs the same way run does and prints the execution mode,
target, container image and maturin command. In container mode the build
script is printed as well. Nothing is installed, pulled or written.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlan(cmd)
	},
}

func init() {
	planInputs = addInputFlags(planCmd)
}

func runPlan(cmd *cobra.Command) error {
	printer := output.New()
	printer.SetWorkflow(false)
	printer.SetDebug(debugFlag)

	logger, closeLog, err := newLogger()
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	in, err := loadInputs(cmd, planInputs)
	if err != nil {
		return err
	}
	plan, err := dispatch.NewPlan(in, currentHost())
	if err != nil {
		return err
	}

	versions := release.New(printer)
	versions.SetLogger(logging.WithComponent(logger, "version"))
	tag := versions.Resolve(cmd.Context(), plan.MaturinVersion)

	fields := []output.Field{
		{Name: "Mode", Value: string(plan.Mode)},
		{Name: "Target", Value: plan.Target.String()},
		{Name: "Tier", Value: string(plan.Tier)},
		{Name: "maturin", Value: tag},
	}

	var script *dispatch.Script
	if plan.Mode == dispatch.ModeContainer {
		img, err := dispatch.SelectImage(plan, tag)
		if err != nil {
			return err
		}
		fields = append(fields, output.Field{Name: "Image", Value: img.Ref})
		script = dispatch.BuildScript(dispatch.ScriptParams{
			Tag:          tag,
			HostArch:     plan.Host.GOARCH,
			Toolchain:    plan.Toolchain,
			Target:       plan.Target,
			ExtraCommand: plan.ExtraBuildCommand,
			BuildCommand: plan.BuildCommand,
		})
	}
	fields = append(fields, output.Field{Name: "Command", Value: "maturin " + plan.BuildCommand.String()})

	printer.Summary("PLAN", fields)
	if script != nil {
		printer.Section(fmt.Sprintf("SCRIPT (%s)", dispatch.ScriptName))
		printer.Println(script.Render())
	}
	return nil
}
