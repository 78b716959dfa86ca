// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

package dispatch

import "github.com/monadic/kubefzf/internal/table"

func newHeaderFor(listing string) *table.Header {
	header, _ := table.Split(listing)
	return table.Parse(header)
}
