package cmd

import (
	"github.com/trackium/trackd/src/prove"
	"github.com/trackium/trackd/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(proveCmd)
}

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "Anchor unattested movement samples on the ledger",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := prove.NewController(conf)
		if err != nil {
			return
		}

		err = controller.Start()
		if err != nil {
			return
		}

		select {
		case <-controller.CtxRunning.Done():
		case <-applicationCtx.Done():
		}

		controller.StopWait()

		return
	},
	PostRunE: func(cmd *cobra.Command, args []string) (err error) {
		log := logger.NewSublogger("root-cmd")
		log.Debug("Finished prove command")
		applicationCtxCancel()
		return
	},
}
