// Copyright 2012 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command unidb is a small query shell over the unidb driver bridges. It
// reads named connection profiles from a TOML file and runs one statement
// per invocation.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/unidb/unidb"
	"github.com/unidb/unidb/odbc"
	"github.com/unidb/unidb/sqlite"
)

type profile struct {
	Driver  string `toml:"driver"` // sqlite or odbc
	File    string `toml:"file"`   // file path or driver connection string
	Create  bool   `toml:"create"`
	Dialect string `toml:"dialect"`
}

type config struct {
	Profiles map[string]profile `toml:"profiles"`
}

type rootFlags struct {
	configFile string
	profile    string
}

func main() {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:           "unidb",
		Short:         "Run statements through the unidb database bridges",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "unidb.toml", "Connection profiles file")
	rootCmd.PersistentFlags().StringVarP(&flags.profile, "profile", "p", "default", "Profile name")

	rootCmd.AddCommand(execCmd(flags))
	rootCmd.AddCommand(queryCmd(flags))
	rootCmd.AddCommand(askCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "unidb:", err)
		os.Exit(1)
	}
}

func openDatabase(flags *rootFlags) (unidb.Database, error) {
	var cfg config
	if _, err := toml.DecodeFile(flags.configFile, &cfg); err != nil {
		return nil, errors.Wrapf(err, "reading %s", flags.configFile)
	}
	p, ok := cfg.Profiles[flags.profile]
	if !ok {
		return nil, errors.Errorf("no profile %q in %s", flags.profile, flags.configFile)
	}

	var db unidb.Database
	switch p.Driver {
	case "sqlite", "":
		db = sqlite.NewDatabaseHandle(flags.profile, p.Dialect)
	case "odbc":
		db = odbc.NewDatabaseHandle(flags.profile, p.Dialect)
	default:
		return nil, errors.Errorf("unknown driver %q", p.Driver)
	}

	args := unidb.Arguments{}.
		Append("file", unidb.StringView(p.File)).
		Append("create", unidb.BoolView(p.Create))
	if err := db.OpenArguments(args); err != nil {
		db.Release()
		return nil, errors.Wrapf(err, "opening profile %q", flags.profile)
	}
	return db, nil
}

func execCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <sql>",
		Short: "Run a statement and print the affected row count",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			db, err := openDatabase(flags)
			if err != nil {
				return err
			}
			defer db.Release()
			if err := db.Execute(args[0]); err != nil {
				return err
			}
			n, err := db.ChangeCount()
			if err != nil {
				return err
			}
			fmt.Printf("%d row(s) changed\n", n)
			return nil
		},
	}
}

func queryCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a select and print tab separated rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			db, err := openDatabase(flags)
			if err != nil {
				return err
			}
			defer db.Release()
			cur, err := db.Cursor()
			if err != nil {
				return err
			}
			defer cur.Release()
			if err := cur.OpenQuery(args[0]); err != nil {
				return err
			}
			rec := cur.Record()
			fmt.Println(strings.Join(rec.NamesList(), "\t"))
			for cur.IsValidRow() {
				row := make([]string, rec.ColumnCount())
				for i := range row {
					v := rec.VariantView(i)
					if v.IsNull() {
						row[i] = "NULL"
					} else {
						row[i] = v.AsString()
					}
				}
				fmt.Println(strings.Join(row, "\t"))
				if err := cur.Next(); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func askCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <sql>",
		Short: "Run a statement expected to return one scalar",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			db, err := openDatabase(flags)
			if err != nil {
				return err
			}
			defer db.Release()
			v, err := db.Ask(args[0])
			if err != nil {
				return err
			}
			if v.IsNull() {
				fmt.Println("NULL")
			} else {
				fmt.Println(v.AsString())
			}
			return nil
		},
	}
}
