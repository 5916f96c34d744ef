package main

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/charlie0129/calibdb/pkg/config"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show or change the saved configuration",
		GroupID: gConfig,
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				conf, err := loadConfig()
				if err != nil {
					return err
				}
				raw, err := config.NewRawFileConfigFromConfig(conf)
				if err != nil {
					return err
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(raw)
			},
		},
		&cobra.Command{
			Use:   "set",
			Short: "Save --folder, --remote and --timezone to the config file",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				conf, err := loadConfig()
				if err != nil {
					return err
				}
				if _, err := conf.Location(); err != nil {
					return err
				}
				if err := conf.Save(); err != nil {
					return fmt.Errorf("failed to save config: %w", err)
				}
				logrus.WithFields(conf.LogrusFields()).Infof("saved config to %s", configPath)
				return nil
			},
		},
	)

	return cmd
}
