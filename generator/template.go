package generator

import (
	"fmt"
	"path"
	"time"
)

const (
	// FrontMatterDelimiter opens and closes the YAML block.
	FrontMatterDelimiter = "---"

	titlePlaceholder       = "[Write a catchy, SEO-friendly title for the topic]"
	descriptionPlaceholder = "[Write a compelling 1-2 sentence meta description for search engines]"
	tagPlaceholder1        = "[tag1]"
	tagPlaceholder2        = "[tag2]"

	// ThumbnailName is the bundle-relative file the image key points at.
	ThumbnailName = "logo.jpg"
)

// FormatDate renders t as UTC ISO-8601 with millisecond precision and a literal Z.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}

// ImagePath is the site-relative URL of a bundle's thumbnail.
func ImagePath(prefix, slug string) string {
	return path.Join("/", prefix, slug, ThumbnailName)
}

// BuildTemplate returns the frontmatter block the writer model is told to fill in.
// It is also injected verbatim when the model forgets to emit one.
func BuildTemplate(slug string, now time.Time, imagePrefix string) string {
	return fmt.Sprintf(`---
title: "%s"
date: %s
draft: true

# post thumb
image: "%s"

# meta description
description: "%s"

# taxonomies
categories:
  - Tech
tags:
  - %s
  - %s

# post type
type: "post"
---`, titlePlaceholder, FormatDate(now), ImagePath(imagePrefix, slug), descriptionPlaceholder, tagPlaceholder1, tagPlaceholder2)
}
