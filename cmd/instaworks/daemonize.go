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
	"os"
	"os/exec"
	"syscall"
)

// daemonizeSelf implements spec.md §6's `-d` "daemonize (server mode,
// detach)": Go's runtime starts with multiple OS threads already running,
// so a classic fork()-then-continue (as the original does) is not
// available. This re-execs the same binary with `-d` replaced by `-f`
// and `--reexeced` set, detached into its own session via
// syscall.SysProcAttr.Setsid, with stdio redirected to /dev/null, then
// returns immediately so the parent can exit zero.
func daemonizeSelf(argv []string) error {
	self, err := os.Executable()
	if err != nil {
		return err
	}

	childArgs := make([]string, 0, len(argv)+1)
	for _, a := range argv {
		if a == "-d" || a == "--daemonize" {
			childArgs = append(childArgs, "-f")
			continue
		}
		childArgs = append(childArgs, a)
	}
	childArgs = append(childArgs, "--reexeced")

	devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	defer devNull.Close()

	cmd := exec.Command(self, childArgs...)
	cmd.Stdin = devNull
	cmd.Stdout = devNull
	cmd.Stderr = devNull
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return err
	}
	return cmd.Process.Release()
}
