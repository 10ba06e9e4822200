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

package main

import (
	"context"

	"github.com/instaworks/instaworks/crash"
	"github.com/instaworks/instaworks/supervisor"
)

// runServer starts the full supervisor (spec.md 4.15's eight-step order),
// installs the crash/signal handler, and blocks until shutdown -- the
// "invoke the user's main callback" step, realized here as simply waiting
// on the supervisor's context since this executable has no further work
// of its own to do once the substrate is up.
func runServer(opts serverOptions) error {
	sup, err := supervisor.New(context.Background(), supervisor.Config{
		CommandPort:     opts.cmdPort,
		EnableWeb:       opts.enableWeb,
		WebPort:         opts.webPort,
		LogLevel:        initialLevel(opts.logBitmask),
		CrashReportPath: opts.crashReportPath,
		AllowQuit:       opts.allowQuit,
		Version:         buildVersion,
		Seed:            seedStore,
		ConfigFile:      opts.configFile,
	})
	if err != nil {
		return err
	}

	h := crash.New(sup.Threads, sup.Mutexes, sup.Ring, sup.Log, sup.CrashReportPath(), sup.RequestShutdown)
	h.Start(sup.Context())
	defer h.Stop()

	<-sup.Context().Done()
	sup.Shutdown()
	return nil
}
