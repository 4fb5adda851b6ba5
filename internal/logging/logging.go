// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package logging wires up the structured, leveled logger the driving
// layer reports against, plus the process-scoped debug log file
// described in spec §9 ("Global debug log file"). Neither is on the
// iterator core's correctness path: internal/linksto, internal/baseiter
// and internal/pdb never import this package.
package logging

import (
	"fmt"
	"os"
	"sync"

	"github.com/erigontech/erigon-lib/log/v3"
)

// Setup configures the root logger's verbosity the way erigon's own
// cmd/ binaries do, and returns it for callers that want to pass it
// down explicitly instead of using the package-level Info/Warn/Error
// helpers below.
func Setup(verbosity log.Lvl) log.Logger {
	logger := log.Root()
	logger.SetHandler(log.LvlFilterHandler(verbosity, log.StderrHandler))
	return logger
}

func Info(msg string, ctx ...interface{})  { log.Info(msg, ctx...) }
func Warn(msg string, ctx ...interface{})  { log.Warn(msg, ctx...) }
func Error(msg string, ctx ...interface{}) { log.Error(msg, ctx...) }
func Debug(msg string, ctx ...interface{}) { log.Debug(msg, ctx...) }

var (
	debugOnce sync.Once
	debugFile *os.File
	debugMu   sync.Mutex
)

// Debugf opens the per-process debug log on first use and appends a
// formatted line to it (spec §9: "a process-scoped state with explicit
// lazy initialization and a documented flush policy"). Every call
// flushes immediately -- this is a debugging aid invoked rarely enough
// (planner decisions, morph events) that buffering would only delay
// diagnosis, never a hot-path logger.
func Debugf(path string, format string, args ...interface{}) {
	debugMu.Lock()
	defer debugMu.Unlock()
	debugOnce.Do(func() {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			Error("open debug log", "path", path, "err", err)
			return
		}
		debugFile = f
	})
	if debugFile == nil {
		return
	}
	fmt.Fprintf(debugFile, format+"\n", args...)
	debugFile.Sync()
}

// CloseDebug flushes and closes the debug log file, if opened. Safe to
// call even if Debugf was never invoked.
func CloseDebug() {
	debugMu.Lock()
	defer debugMu.Unlock()
	if debugFile != nil {
		debugFile.Close()
		debugFile = nil
	}
}
