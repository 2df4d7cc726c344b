package cmd

import (
	"github.com/trackium/trackd/src/utils/logger"
	"github.com/trackium/trackd/src/verify"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Confirm submitted attestations against the ledger",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := verify.NewController(conf)
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
		log.Debug("Finished verify command")
		applicationCtxCancel()
		return
	},
}
