// Copyright Dialcraft and each contributor.
// SPDX-License-Identifier: MIT

// Package utils contains small shared helpers.
package utils

// CoalesceString returns the first non-empty string from the given arguments.
func CoalesceString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
