// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes identifiers for requests and rendered elements.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"hash/fnv"
	"strconv"
	"time"
)

// Make returns a request ID: the wall clock as HHMMSS followed by four
// random URL-safe characters, so log lines sort by time and stay distinct.
func Make() string {
	return makeAt(time.Now())
}

func makeAt(now time.Time) string {
	var noise [3]byte

	_, _ = rand.Read(noise[:])

	return now.Format("150405") + base64.RawURLEncoding.EncodeToString(noise[:])
}

// ForContent returns an HTML element ID derived from the block's kind, its
// position on the page and its content. Equal inputs give equal IDs, which
// keeps rendered pages byte-identical across requests.
func ForContent(kind string, position int, content string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(content))

	return kind + "-" + strconv.Itoa(position) + "-" + strconv.FormatUint(uint64(h.Sum32()), 36)
}
