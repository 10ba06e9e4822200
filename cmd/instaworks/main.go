/*
 * MIT License
 *
 * Copyright (c) 2026 The Instaworks Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

//go:build unix

// Command instaworks is the executable's CLI surface, grounded on spec.md
// §6's "CLI surface of the executable" and, for the cobra wiring style
// (an instance built then Execute'd, version/config flags bound up
// front), on the shape of nabbar-golib/cobra/interface.go -- trimmed from
// that package's generic arbitrary-flag wrapper to a closed, fixed flag
// set rather than one callers extend at runtime: the three pre-declared
// flags spec.md names (-f, -d, -l) plus the server options --port, --web,
// --web-port, --config, --crash-report and --allow-quit.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/instaworks/instaworks/internal/oplog"
	"github.com/instaworks/instaworks/internal/opserr"
	"github.com/instaworks/instaworks/valstore"
	"github.com/instaworks/instaworks/version"
)

// Exit codes per spec.md §6: 0 success, nonzero for invalid parameters,
// startup failure, or client transport failure.
const (
	exitOK               = 0
	exitInvalidParam     = 2
	exitStartupFailure   = 3
	exitTransportFailure = 4
)

var buildVersion = version.Info{Major: 1, Minor: 0, BuildDate: ""}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) int {
	var (
		foreground bool
		daemonize  bool
		logBitmask uint32
		cmdPort    int
		enableWeb  bool
		webPort    int
		configFile string
		allowQuit  bool
		reexeced   bool
		crashPath  string
	)

	root := &cobra.Command{
		Use:           "instaworks [command args...]",
		Short:         "instaworks runtime supervision substrate",
		Version:       buildVersion.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !foreground && !daemonize {
				return runClientImpl(cmdPort, args)
			}
			if daemonize && !reexeced {
				return daemonizeSelf(argv)
			}
			return runServer(serverOptions{
				cmdPort:         cmdPort,
				enableWeb:       enableWeb,
				webPort:         webPort,
				logBitmask:      logBitmask,
				configFile:      configFile,
				allowQuit:       allowQuit,
				crashReportPath: crashPath,
			})
		},
	}

	root.Flags().BoolVarP(&foreground, "foreground", "f", false, "run as the server, in the foreground")
	root.Flags().BoolVarP(&daemonize, "daemonize", "d", false, "run as the server, detached")
	root.Flags().Uint32VarP(&logBitmask, "log-level", "l", oplog.InfoLevel.Bit(), "initial log-level bitmask")
	root.Flags().IntVarP(&cmdPort, "port", "p", 9000, "loopback command server port")
	root.Flags().BoolVar(&enableWeb, "web", false, "also start the web surface")
	root.Flags().IntVar(&webPort, "web-port", 8080, "loopback web surface port")
	root.Flags().StringVarP(&configFile, "config", "c", "", "optional configuration file to load at startup")
	root.Flags().BoolVar(&allowQuit, "allow-quit", true, "register the command tree's quit command")
	root.Flags().StringVar(&crashPath, "crash-report", "instaworks-crash.log", "crash report file path")
	root.Flags().BoolVar(&reexeced, "reexeced", false, "internal: set on the detached child of -d")
	root.Flags().MarkHidden("reexeced")

	if len(argv) == 0 {
		_ = root.Help()
		return exitOK
	}

	root.SetArgs(argv)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return exitOK
}

func exitCodeFor(err error) int {
	switch {
	case opserr.Is(err, opserr.KindSupervisor):
		return exitStartupFailure
	case opserr.Is(err, opserr.KindTransport):
		return exitTransportFailure
	default:
		return exitInvalidParam
	}
}

type serverOptions struct {
	cmdPort         int
	enableWeb       bool
	webPort         int
	logBitmask      uint32
	configFile      string
	allowQuit       bool
	crashReportPath string
}

func seedStore(s *valstore.Store) {
	_ = s.Set(valstore.NewString("server.host", "127.0.0.1"))
}

func initialLevel(bitmask uint32) oplog.Level {
	lvl := oplog.NilLevel
	for l := oplog.PanicLevel; l <= oplog.DebugLevel; l++ {
		if oplog.FromBitmask(bitmask, l) {
			lvl = l
		}
	}
	return lvl
}
