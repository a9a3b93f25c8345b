package cli

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/labliste/internal/logging"
	"github.com/JonMunkholm/labliste/internal/scaffold"
)

func (a *App) erstellenCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "erstellen 20jj-n",
		Short:              "Create the directory structure of a new period",
		Long:               "Creates the period directory with one subdirectory per region of the template config, the target directory and a copy of the template.",
		Args:               a.periodArgs,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.periodDir(args[0])
			logging.FromContext(cmd.Context()).Debug("creating period", "dir", dir)

			return scaffold.Create(scaffold.Options{
				Dir:        dir,
				Template:   a.Config.Paths.TemplateConfig,
				ConfigFile: a.Config.Paths.ConfigFile,
				TargetDir:  a.Config.Paths.TargetDir,
			})
		},
	}
}
