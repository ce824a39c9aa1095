package show

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mpapenbr/racegap-go/log"
	"github.com/mpapenbr/racegap-go/pkg/cmd/cmdutil"
	"github.com/mpapenbr/racegap-go/pkg/config"
	"github.com/mpapenbr/racegap-go/pkg/render"
	"github.com/mpapenbr/racegap-go/pkg/storage"
)

func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "show <name>",
		Short:   "renders the gaps of a previously saved race table",
		Example: `  racegap show 2018_11 --format csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return show(cmd, args[0])
		},
	}
	return cmd
}

func show(cmd *cobra.Command, name string) error {
	logger := cmdutil.SetupLogger()
	defer func() { _ = logger.Sync() }()

	format, err := storage.ParseFormat(config.Format)
	if err != nil {
		return err
	}
	t := storage.Load(cmdutil.OutPath(name), format)
	if t.Empty() {
		return fmt.Errorf("no data in %s", storage.FileName(name, format))
	}
	logger.Info("Loaded table",
		log.String("name", name),
		log.Stringer("mode", t.Mode),
		log.Int("rows", len(t.Rows)))

	r := render.New(
		render.WithOutDir(config.OutDir),
		render.WithOutput(cmd.OutOrStdout()),
		render.WithLogger(logger.Named("render")))
	cmdutil.RenderGaps(r, t, name)
	return r.Show()
}
