// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

//go:build !unix

package generate

import "time"

// CPU time is not reported.
func cpuTime() time.Duration {
	return 0
}
