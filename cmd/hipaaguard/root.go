package main

import "github.com/spf13/cobra"

var rootCmd = &cobra.Command{
	Use:           "hipaaguard",
	Short:         "HIPAAGuard scans cloud asset inventories for HIPAA compliance gaps.",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd, scanCmd, migrateCmd, rulesCmd)
}
