// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

package fragments

import (
	"context"

	"github.com/ashiffxd/LLM-Internals/server/request_context"
	"github.com/ashiffxd/LLM-Internals/server/template/commondata"
)

// CommonData returns the page data shared by every view.
func CommonData(ctx context.Context) commondata.PageCommonData {
	return request_context.FromContext(ctx).CommonData
}
