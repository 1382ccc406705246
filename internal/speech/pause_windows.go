// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

//go:build windows
// +build windows

package speech

import "os"

func suspend(*os.Process) error {
	return ErrPauseUnsupported
}

func resume(*os.Process) error {
	return ErrPauseUnsupported
}
