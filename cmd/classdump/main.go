// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	classfile "github.com/go-jclass/classfile"
)

const version = "0.1.0"

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func dumpOne(path string) {
	cf, err := classfile.Load(path, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		return
	}
	defer cf.Close()

	fmt.Printf("\n------[ %s ]------\n\n", path)
	if err := classfile.Dump(cf.ClassFile, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
	}
}

func dump(cmd *cobra.Command, args []string) {
	for _, path := range args {
		if !isDirectory(path) {
			dumpOne(path)
			continue
		}
		filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				dumpOne(p)
			}
			return nil
		})
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "classdump",
		Short: "A JVM class file parser",
		Long:  "Decodes and inspects JVM class files.",
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("classdump version", version)
		},
	}

	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Dump the contents of one or more class files",
		Args:  cobra.MinimumNArgs(1),
		Run:   dump,
	}

	rootCmd.AddCommand(versionCmd, dumpCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
