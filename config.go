// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/elliotnunn/huffarc/internal/archive"
	"github.com/elliotnunn/huffarc/internal/block"
)

var (
	blockSize = envInt("HUFFARC_BLOCKSIZE", "a block size in bytes", archive.DefaultBlockSize, block.MinSize, block.MaxSize)
	cacheDir  = os.Getenv("HUFFARC_CACHE") // empty disables the cache
	cacheN    = envInt("HUFFARC_CACHEN", "a number of cached streams", 64, 1, 1<<20)
	logLevel  = envLevel("HUFFARC_LOG", slog.LevelWarn)
)

func envInt(name, what string, dflt, lo, hi int) int {
	e := os.Getenv(name)
	if e == "" {
		return dflt
	}
	n, err := strconv.Atoi(e)
	if err != nil || n < lo || n > hi {
		panic("malformed " + name + " environment variable, should be " + what +
			" from " + strconv.Itoa(lo) + " to " + strconv.Itoa(hi) + ": " + e)
	}
	return n
}

func envLevel(name string, dflt slog.Level) slog.Level {
	e := os.Getenv(name)
	if e == "" {
		return dflt
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(e)); err != nil {
		panic("malformed " + name + " environment variable, should be DEBUG, INFO, WARN or ERROR: " + e)
	}
	return l
}
