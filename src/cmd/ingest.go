package cmd

import (
	"github.com/trackium/trackd/src/ingest"
	"github.com/trackium/trackd/src/utils/logger"

	"github.com/spf13/cobra"
)

func init() {
	RootCmd.AddCommand(ingestCmd)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Receive location reports from devices and save them to the database",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		controller, err := ingest.NewController(conf)
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
		log.Debug("Finished ingest command")
		applicationCtxCancel()
		return
	},
}
