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

package command

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"strconv"
	"strings"

	"github.com/instaworks/instaworks/internal/oplog"
	"github.com/instaworks/instaworks/logring"
	"github.com/instaworks/instaworks/mutexreg"
	"github.com/instaworks/instaworks/threadreg"
	"github.com/instaworks/instaworks/valstore"
	"github.com/instaworks/instaworks/version"
)

// Deps bundles everything the built-in commands from spec.md 4.10 need to
// read or mutate.
type Deps struct {
	Threads   *threadreg.Registry
	Mutexes   *mutexreg.Registry
	Ring      *logring.Ring
	Logger    oplog.Logger
	Config    *valstore.Store
	Version   version.Info
	AllowQuit bool
	RequestQuit func()
}

// NewRoot builds the root of the command tree with every built-in
// registered: help, threads, mutexes, callstack, log (lvl/thread),
// memory (show/summary/brief), syslog (show/clear), iwver, and quit
// (only when AllowQuit is true), per spec.md 4.10.
func NewRoot(d Deps) *Node {
	root := NewNode("", "", nil)

	root.AddChild(NewNode("help", "list available commands", func(out io.Writer, name string, args *Args) Result {
		printHelp(out, root)
		return OK
	}))

	root.AddChild(NewNode("threads", "dump the thread registry", func(out io.Writer, name string, args *Args) Result {
		for _, line := range d.Threads.Dump() {
			fmt.Fprintln(out, line)
		}
		return OK
	}))

	root.AddChild(NewNode("mutexes", "dump the mutex registry", func(out io.Writer, name string, args *Args) Result {
		for _, id := range d.Mutexes.IDs() {
			mname, _ := d.Mutexes.Name(id)
			owner := d.Mutexes.Owner(id)
			fmt.Fprintf(out, "[%d] %-16s owner=%d\n", id, mname, owner)
		}
		return OK
	}))

	root.AddChild(NewNode("callstack", "callstack <hex-thread-id>", func(out io.Writer, name string, args *Args) Result {
		tok, ok := args.Next()
		if !ok {
			fmt.Fprintln(out, "usage: callstack <hex-thread-id>")
			return HandlerError
		}
		h, err := parseHexHandle(tok)
		if err != nil {
			fmt.Fprintf(out, "invalid thread id: %s\n", tok)
			return HandlerError
		}
		stack, ok := d.Threads.Callstack(h)
		if !ok {
			fmt.Fprintf(out, "no such thread: %s\n", tok)
			return HandlerError
		}
		fmt.Fprintln(out, stack)
		return OK
	}))

	logNode := root.AddChild(NewNode("log", "log lvl|thread", nil))
	logNode.AddChild(NewNode("lvl", "log lvl <bitmask> <device>", func(out io.Writer, name string, args *Args) Result {
		bitmaskTok, ok := args.Next()
		if !ok {
			fmt.Fprintln(out, "usage: log lvl <bitmask> <device>")
			return HandlerError
		}
		mask, err := strconv.ParseUint(bitmaskTok, 0, 32)
		if err != nil {
			fmt.Fprintf(out, "invalid bitmask: %s\n", bitmaskTok)
			return HandlerError
		}
		device, _ := args.Next()
		for lvl := oplog.PanicLevel; lvl <= oplog.DebugLevel; lvl++ {
			if oplog.FromBitmask(uint32(mask), lvl) {
				d.Logger.SetLevel(lvl)
			}
		}
		fmt.Fprintf(out, "log level set to bitmask 0x%x on device %s\n", mask, device)
		return OK
	}))
	logNode.AddChild(NewNode("thread", "log thread <hex-thread-id|all> <on|off>", func(out io.Writer, name string, args *Args) Result {
		target, ok1 := args.Next()
		state, ok2 := args.Next()
		if !ok1 || !ok2 {
			fmt.Fprintln(out, "usage: log thread <hex-thread-id|all> <on|off>")
			return HandlerError
		}
		on := state == "on"
		if target == "all" {
			d.Threads.SetLogAll(on)
			return OK
		}
		h, err := parseHexHandle(target)
		if err != nil {
			fmt.Fprintf(out, "invalid thread id: %s\n", target)
			return HandlerError
		}
		if !d.Threads.SetLog(context.Background(), h, on) {
			fmt.Fprintf(out, "no such thread: %s\n", target)
			return HandlerError
		}
		return OK
	}))

	memNode := root.AddChild(NewNode("memory", "memory show|summary|brief", nil))
	memNode.AddChild(NewNode("show", "detailed memory accounting", func(out io.Writer, name string, args *Args) Result {
		writeMemStats(out, true)
		return OK
	}))
	memNode.AddChild(NewNode("summary", "memory accounting summary", func(out io.Writer, name string, args *Args) Result {
		writeMemStats(out, false)
		return OK
	}))
	memNode.AddChild(NewNode("brief", "one-line memory accounting", func(out io.Writer, name string, args *Args) Result {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		fmt.Fprintf(out, "alloc=%d sys=%d numgc=%d\n", ms.Alloc, ms.Sys, ms.NumGC)
		return OK
	}))

	syslogNode := root.AddChild(NewNode("syslog", "syslog show|clear", nil))
	syslogNode.AddChild(NewNode("show", "dump the log ring", func(out io.Writer, name string, args *Args) Result {
		for _, rec := range d.Ring.Read() {
			fmt.Fprintf(out, "%s %s\n", rec.Timestamp.Format("2006-01-02T15:04:05.000"), rec.Payload)
		}
		return OK
	}))
	syslogNode.AddChild(NewNode("clear", "clear the log ring", func(out io.Writer, name string, args *Args) Result {
		d.Ring.Clear()
		return OK
	}))

	root.AddChild(NewNode("iwver", "show build/version information", func(out io.Writer, name string, args *Args) Result {
		fmt.Fprintln(out, d.Version.String())
		return OK
	}))

	if d.AllowQuit {
		root.AddChild(NewNode("quit", "shut down the server", func(out io.Writer, name string, args *Args) Result {
			if d.RequestQuit != nil {
				d.RequestQuit()
			}
			fmt.Fprintln(out, "shutting down")
			return OK
		}))
	}

	return root
}

func parseHexHandle(tok string) (threadreg.Handle, error) {
	tok = strings.TrimPrefix(strings.ToLower(tok), "0x")
	n, err := strconv.ParseUint(tok, 16, 64)
	if err != nil {
		return 0, err
	}
	return threadreg.Handle(n), nil
}

func writeMemStats(out io.Writer, detailed bool) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	fmt.Fprintf(out, "Alloc:      %d\n", ms.Alloc)
	fmt.Fprintf(out, "TotalAlloc: %d\n", ms.TotalAlloc)
	fmt.Fprintf(out, "Sys:        %d\n", ms.Sys)
	fmt.Fprintf(out, "NumGC:      %d\n", ms.NumGC)
	if detailed {
		fmt.Fprintf(out, "HeapAlloc:  %d\n", ms.HeapAlloc)
		fmt.Fprintf(out, "HeapSys:    %d\n", ms.HeapSys)
		fmt.Fprintf(out, "HeapIdle:   %d\n", ms.HeapIdle)
		fmt.Fprintf(out, "HeapInuse:  %d\n", ms.HeapInuse)
		fmt.Fprintf(out, "StackInuse: %d\n", ms.StackInuse)
		fmt.Fprintf(out, "NumGoroutine: %d\n", runtime.NumGoroutine())
	}
}
