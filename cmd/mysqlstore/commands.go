package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/beandb/mysqlstore"
)

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:   "mysqlstore",
	Short: "Operator console for a mysqlstore database",
	Long: `Operator console for a mysqlstore database.

Connection options come from the environment (MYSQLSTORE_HOST, MYSQLSTORE_PORT,
MYSQLSTORE_USER, MYSQLSTORE_PASSWORD, MYSQLSTORE_DATABASE), a .env file, or a
.mysqlstore.yaml in the working or home directory.`,
	SilenceUsage: true,
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check that the database is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := connect()
		if err != nil {
			return err
		}
		defer ds.Close()
		color.Green("ok")
		return nil
	},
}

var queryCmd = &cobra.Command{
	Use:   "query <sql> [args...]",
	Short: "Run a raw parameterized query and print the result",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := connect()
		if err != nil {
			return err
		}
		defer ds.Close()

		values := make([]any, len(args)-1)
		for i, a := range args[1:] {
			values[i] = a
		}
		rows, err := ds.CustomQuery(cmd.Context(), args[0], values...)
		if err != nil {
			return err
		}
		return renderRows(rows)
	},
}

var countCmd = &cobra.Command{
	Use:   "count <table>",
	Short: "Count the rows of a table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := connect()
		if err != nil {
			return err
		}
		defer ds.Close()

		n, err := ds.Count(cmd.Context(), args[0], nil, nil)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "print every statement before it executes")
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(countCmd)
}

// Execute runs the command tree.
func Execute() error {
	return rootCmd.Execute()
}

func connect() (*mysqlstore.DataSource, error) {
	opts, err := mysqlstore.LoadOptions()
	if err != nil {
		return nil, err
	}
	if debugFlag {
		opts.Debug = mysqlstore.ColorDebug()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return mysqlstore.Connect(ctx, opts)
}

func renderRows(rows []map[string]any) error {
	if len(rows) == 0 {
		pterm.Info.Println("empty result")
		return nil
	}

	header := make([]string, 0, len(rows[0]))
	for k := range rows[0] {
		header = append(header, k)
	}
	sort.Strings(header)

	data := pterm.TableData{header}
	for _, row := range rows {
		line := make([]string, len(header))
		for i, k := range header {
			if row[k] == nil {
				line[i] = "NULL"
				continue
			}
			line[i] = fmt.Sprintf("%v", row[k])
		}
		data = append(data, line)
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
