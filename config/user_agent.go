// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

// UserAgent returns the User-Agent sent with outgoing requests.
func UserAgent() string {
	return "LLM-Internals/" + BuildVersion + " (+" + Global.Instance.RepoURL + ")"
}
