// Copyright 2023 - 2025, VnPower and the PixivFE contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package catalog loads the course articles and the module roadmap.

The expected layout of the content filesystem is:

	roadmap.yaml
	articles/<slug>.md

Each article starts with YAML front matter between "---" lines or TOML front
matter between "+++" lines, followed by the article body:

	---
	module: 2
	slug: self-attention
	title: Self-Attention
	description: How tokens look at each other.
	readTime: 12
	previous: {module: 2, slug: transformers-architecture}
	next: {module: 2, slug: multi-head-attention}
	---
	# Self-Attention
	...

A Catalog is immutable once loaded. Load validates cross references between
articles and the roadmap and reports every problem it finds at once.
*/
package catalog
