/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package version exposes the application version for logging, crash
// reports and the CLI. Commit and Date can be injected at build time via
// -ldflags "-X gobanner/internal/version.Commit=... -X gobanner/internal/version.Date=...".
package version

import "fmt"

var (
	// Version is the semantic version of the application.
	Version = "0.3.0"
	// Commit is the VCS revision the binary was built from (optional).
	Commit = ""
	// Date is the build date (optional).
	Date = ""
)

// String returns a human-readable version string.
func String() string {
	s := Version
	if Commit != "" {
		s = fmt.Sprintf("%s (%s)", s, Commit)
	}
	if Date != "" {
		s = fmt.Sprintf("%s built %s", s, Date)
	}
	return s
}
